package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/utils"
)

// ProductHandler manages the public catalog and admin product CRUD.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns paginated active products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{}).Where("is_active = ?", true)

	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR brand ILIKE ?", q, q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}

	switch c.Query("sort") {
	case "price_asc":
		query = query.Order("price asc")
	case "price_desc":
		query = query.Order("price desc")
	case "best_selling":
		query = query.Order("total_sales desc")
	default:
		query = query.Order("created_at desc")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Images").Preload("Category").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct loads one product by slug with its relations and approved
// reviews.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var product models.Product
	if err := h.db.Preload("Images").Preload("Variants").Preload("Category").
		First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var reviews []models.ProductReview
	if err := h.db.Preload("User").
		Where("product_id = ? AND is_approved = ?", product.ID, true).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"product": product,
			"reviews": reviews,
		},
	})
}

type productImageRequest struct {
	ImageURL  string `json:"image_url"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type productVariantRequest struct {
	VariantName   string  `json:"variant_name"`
	VariantValue  string  `json:"variant_value"`
	PriceModifier float64 `json:"price_modifier"`
	StockQuantity int     `json:"stock_quantity"`
	SKU           string  `json:"sku"`
	IsActive      *bool   `json:"is_active"`
}

type productRequest struct {
	Name              string                  `json:"name"`
	Slug              string                  `json:"slug"`
	SKU               string                  `json:"sku"`
	Brand             string                  `json:"brand"`
	Description       string                  `json:"description"`
	LongDescription   string                  `json:"long_description"`
	CategoryID        string                  `json:"category_id"`
	Price             float64                 `json:"price"`
	ComparePrice      *float64                `json:"compare_price"`
	CostPrice         *float64                `json:"cost_price"`
	StockQuantity     int                     `json:"stock_quantity"`
	LowStockThreshold int                     `json:"low_stock_threshold"`
	Weight            *float64                `json:"weight"`
	Dimensions        string                  `json:"dimensions"`
	IsActive          *bool                   `json:"is_active"`
	IsFeatured        bool                    `json:"is_featured"`
	MetaTitle         string                  `json:"meta_title"`
	MetaDescription   string                  `json:"meta_description"`
	MetaKeywords      string                  `json:"meta_keywords"`
	Images            []productImageRequest   `json:"images"`
	Variants          []productVariantRequest `json:"variants"`
}

func (r *productRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product name is required")
	}
	if r.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must be non-negative")
	}
	if r.StockQuantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "stock must be non-negative")
	}
	return nil
}

func (r *productRequest) apply(product *models.Product) {
	product.Name = r.Name
	product.Slug = r.Slug
	if product.Slug == "" {
		product.Slug = utils.Slugify(r.Name)
	}
	product.SKU = r.SKU
	product.Brand = r.Brand
	product.Description = r.Description
	product.LongDescription = r.LongDescription
	product.Price = r.Price
	product.ComparePrice = r.ComparePrice
	product.CostPrice = r.CostPrice
	product.StockQuantity = r.StockQuantity
	if r.LowStockThreshold > 0 {
		product.LowStockThreshold = r.LowStockThreshold
	}
	product.Weight = r.Weight
	product.Dimensions = r.Dimensions
	product.IsActive = r.IsActive == nil || *r.IsActive
	product.IsFeatured = r.IsFeatured
	product.MetaTitle = r.MetaTitle
	product.MetaDescription = r.MetaDescription
	product.MetaKeywords = r.MetaKeywords

	if id, err := uuid.Parse(r.CategoryID); err == nil {
		product.CategoryID = &id
	} else {
		product.CategoryID = nil
	}
}

// CreateProduct inserts a product with its images and variants.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	var product models.Product
	req.apply(&product)
	product.Images = buildImages(req.Images)
	product.Variants = buildVariants(req.Variants)

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": product.ID, "slug": product.Slug},
		"message": "Product created",
	})
}

// UpdateProduct rewrites a product. Images and variants are replaced
// wholesale inside a transaction; acceptable for low-frequency admin
// edits.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return err
		}

		req.apply(&product)
		if err := tx.Save(&product).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}

		for _, img := range buildImages(req.Images) {
			img.ProductID = id
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		for _, v := range buildVariants(req.Variants) {
			v.ProductID = id
			if err := tx.Create(&v).Error; err != nil {
				return err
			}
		}

		return c.JSON(fiber.Map{"success": true, "message": "Product updated"})
	})
}

// DeleteProduct removes a product and its dependents.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true, "message": "Product deleted"})
	})
}

func buildImages(reqs []productImageRequest) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(reqs))
	for _, r := range reqs {
		images = append(images, models.ProductImage{
			ImageURL:  r.ImageURL,
			AltText:   r.AltText,
			IsPrimary: r.IsPrimary,
			SortOrder: r.SortOrder,
		})
	}
	return images
}

func buildVariants(reqs []productVariantRequest) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(reqs))
	for _, r := range reqs {
		variants = append(variants, models.ProductVariant{
			VariantName:   r.VariantName,
			VariantValue:  r.VariantValue,
			PriceModifier: r.PriceModifier,
			StockQuantity: r.StockQuantity,
			SKU:           r.SKU,
			IsActive:      r.IsActive == nil || *r.IsActive,
		})
	}
	return variants
}
