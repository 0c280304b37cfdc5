package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/deshimart/internal/models"
)

// CartService owns the mapping from (principal, product, variant) to
// quantity. All operations are scoped to the acting principal.
type CartService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewCartService constructs a CartService.
func NewCartService(db *gorm.DB, log *zap.Logger) *CartService {
	return &CartService{db: db, log: log}
}

// CartLine is a cart row joined with live product and variant data.
type CartLine struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	ProductName   string     `json:"product_name"`
	ProductSlug   string     `json:"product_slug"`
	ProductSKU    string     `json:"product_sku"`
	ProductImage  string     `json:"product_image"`
	VariantID     *uuid.UUID `json:"variant_id"`
	VariantName   string     `json:"variant_name"`
	VariantValue  string     `json:"variant_value"`
	UnitPrice     float64    `json:"unit_price"`
	Quantity      int        `json:"quantity"`
	LineTotal     float64    `json:"line_total"`
	StockQuantity int        `json:"stock_quantity"`
}

// CartSummary aggregates the principal's cart with computed totals.
type CartSummary struct {
	Items     []CartLine `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	ItemCount int        `json:"item_count"`
}

// AddItem inserts a new cart line or increments the quantity of an
// existing line with the same (product, variant) key.
func (s *CartService) AddItem(p models.Principal, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ? AND is_active = ?", productID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product not found", ErrInvalidInput)
		}
		return err
	}

	if variantID != nil {
		var variant models.ProductVariant
		if err := s.db.First(&variant, "id = ?", *variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: variant not found", ErrInvalidInput)
			}
			return err
		}
		if variant.ProductID != productID {
			return fmt.Errorf("%w: variant does not belong to product", ErrInvalidInput)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := cartLineKey(ownerScope(tx, p).Model(&models.CartItem{}), productID, variantID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		line := models.CartItem{
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
		}
		if p.IsUser() {
			id := p.UserID
			line.UserID = &id
		} else {
			token := p.GuestToken
			line.GuestSessionID = &token
		}
		return tx.Create(&line).Error
	})
}

// SetQuantity replaces the quantity of a cart line the principal owns.
// The requested quantity is re-validated against the live stock snapshot.
func (s *CartService) SetQuantity(p models.Principal, lineID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	var line models.CartItem
	if err := ownerScope(s.db, p).Preload("Product").Preload("Variant").
		First(&line, "id = ?", lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart item not found", ErrNotFound)
		}
		return err
	}

	available := 0
	if line.Variant != nil {
		available = line.Variant.StockQuantity
	} else if line.Product != nil {
		available = line.Product.StockQuantity
	}
	if quantity > available {
		return fmt.Errorf("%w: only %d in stock", ErrInvalidInput, available)
	}

	return s.db.Model(&models.CartItem{}).Where("id = ?", line.ID).
		Update("quantity", quantity).Error
}

// RemoveItem deletes a cart line. Removing an absent line is a no-op
// success so double-clicks never surface as errors.
func (s *CartService) RemoveItem(p models.Principal, lineID uuid.UUID) error {
	return ownerScope(s.db, p).Where("id = ?", lineID).Delete(&models.CartItem{}).Error
}

// Clear removes every cart line owned by the principal. Idempotent.
func (s *CartService) Clear(p models.Principal) error {
	return ownerScope(s.db, p).Delete(&models.CartItem{}).Error
}

// ListItems returns the principal's cart joined with live catalog data
// plus the computed subtotal and item count.
func (s *CartService) ListItems(p models.Principal) (*CartSummary, error) {
	var items []models.CartItem
	if err := ownerScope(s.db, p).
		Preload("Product").Preload("Product.Images").Preload("Variant").
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: make([]CartLine, 0, len(items))}
	for _, item := range items {
		line := CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.ProductSlug = item.Product.Slug
			line.ProductSKU = item.Product.SKU
			line.UnitPrice = item.Product.Price
			line.StockQuantity = item.Product.StockQuantity
			for _, img := range item.Product.Images {
				if img.IsPrimary {
					line.ProductImage = img.ImageURL
					break
				}
			}
		}
		if item.Variant != nil {
			line.VariantName = item.Variant.VariantName
			line.VariantValue = item.Variant.VariantValue
			line.UnitPrice += item.Variant.PriceModifier
			line.StockQuantity = item.Variant.StockQuantity
		}
		line.LineTotal = line.UnitPrice * float64(item.Quantity)

		summary.Items = append(summary.Items, line)
		summary.Subtotal += line.LineTotal
		summary.ItemCount += item.Quantity
	}

	return summary, nil
}

// MergeGuestIntoUser reconciles a guest cart into a user cart at login.
// Quantities are added into existing user lines; lines without a match
// are reassigned to the user. Guest rows are deleted as they are
// consumed, so re-running after a partial failure never double-counts.
// The guest rows are locked for the duration of the transaction.
func (s *CartService) MergeGuestIntoUser(guestToken string, userID uuid.UUID) error {
	if guestToken == "" {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var guestLines []models.CartItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("guest_session_id = ?", guestToken).
			Find(&guestLines).Error; err != nil {
			return err
		}

		for _, gl := range guestLines {
			res := cartLineKey(
				tx.Model(&models.CartItem{}).Where("user_id = ?", userID),
				gl.ProductID, gl.VariantID,
			).Update("quantity", gorm.Expr("quantity + ?", gl.Quantity))
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected > 0 {
				// Consumed into an existing user line.
				if err := tx.Delete(&models.CartItem{}, "id = ?", gl.ID).Error; err != nil {
					return err
				}
				continue
			}

			if err := tx.Model(&models.CartItem{}).Where("id = ?", gl.ID).
				Updates(map[string]interface{}{
					"user_id":          userID,
					"guest_session_id": nil,
				}).Error; err != nil {
				return err
			}
		}

		return tx.Where("guest_session_id = ?", guestToken).
			Delete(&models.CartItem{}).Error
	})
}

// ownerScope restricts a cart query to the principal's rows.
func ownerScope(db *gorm.DB, p models.Principal) *gorm.DB {
	if p.IsUser() {
		return db.Where("user_id = ?", p.UserID)
	}
	return db.Where("guest_session_id = ?", p.GuestToken)
}

// cartLineKey narrows a cart query to one (product, variant) key. A
// NULL variant is a distinct key from any concrete variant id.
func cartLineKey(db *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) *gorm.DB {
	db = db.Where("product_id = ?", productID)
	if variantID == nil {
		return db.Where("variant_id IS NULL")
	}
	return db.Where("variant_id = ?", *variantID)
}
