package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/deshimart/internal/middleware"
	"github.com/example/deshimart/internal/models"
)

// WishlistHandler manages the user's saved products.
type WishlistHandler struct {
	db *gorm.DB
}

// NewWishlistHandler constructs WishlistHandler.
func NewWishlistHandler(db *gorm.DB) *WishlistHandler {
	return &WishlistHandler{db: db}
}

// ListWishlist returns the user's wishlist with product data.
func (h *WishlistHandler) ListWishlist(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var items []models.WishlistItem
	if err := h.db.Preload("Product").Preload("Product.Images").
		Where("user_id = ?", p.UserID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

type wishlistRequest struct {
	ProductID string `json:"product_id"`
}

// AddToWishlist saves a product; adding the same product twice is a
// no-op success.
func (h *WishlistHandler) AddToWishlist(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req wishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	item := models.WishlistItem{UserID: p.UserID, ProductID: productID}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Added to wishlist",
	})
}

// RemoveFromWishlist deletes a wishlist entry. Idempotent.
func (h *WishlistHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Where("id = ? AND user_id = ?", id, p.UserID).
		Delete(&models.WishlistItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Removed from wishlist"})
}
