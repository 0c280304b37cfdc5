package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/utils"
)

// CategoryHandler manages the category tree.
type CategoryHandler struct {
	db *gorm.DB
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// ListCategories returns the active category tree: root categories with
// their children preloaded.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	query := h.db.Where("parent_id IS NULL")
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Preload("Children").
		Order("sort_order asc, name asc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// GetCategory loads one category by slug with its children.
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var category models.Category
	if err := h.db.Preload("Children").First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

type categoryRequest struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	ParentID        string `json:"parent_id"`
	ImageURL        string `json:"image_url"`
	IsActive        *bool  `json:"is_active"`
	SortOrder       int    `json:"sort_order"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

// CreateCategory inserts a category (admin only).
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category name is required")
	}

	category := models.Category{
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		IsActive:        req.IsActive == nil || *req.IsActive,
		SortOrder:       req.SortOrder,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	}
	if category.Slug == "" {
		category.Slug = utils.Slugify(req.Name)
	}
	if id, err := uuid.Parse(req.ParentID); err == nil {
		category.ParentID = &id
	}

	if err := h.db.Create(&category).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": category.ID, "slug": category.Slug},
		"message": "Category created",
	})
}

// UpdateCategory updates a category (admin only).
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	category.Description = req.Description
	category.ImageURL = req.ImageURL
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.SortOrder = req.SortOrder
	category.MetaTitle = req.MetaTitle
	category.MetaDescription = req.MetaDescription
	if parentID, err := uuid.Parse(req.ParentID); err == nil {
		category.ParentID = &parentID
	}

	if err := h.db.Save(&category).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Category updated"})
}

// DeleteCategory removes a category; children are detached, not deleted.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true, "message": "Category deleted"})
	})
}
