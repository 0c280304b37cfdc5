package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/middleware"
	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/utils"
)

// ReviewHandler manages product reviews and their moderation.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

type createReviewRequest struct {
	ProductID  string `json:"product_id"`
	Rating     int    `json:"rating"`
	Title      string `json:"title"`
	Comment    string `json:"comment"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
}

// CreateReview submits a review from a user or a guest. Reviews await
// admin approval; the verified-purchase flag is derived from delivered
// orders containing the product.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}
	if !p.IsUser() && req.GuestName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "guest name is required")
	}

	review := models.ProductReview{
		ProductID:  productID,
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
	}

	if p.IsUser() {
		userID := p.UserID
		review.UserID = &userID

		var count int64
		if err := h.db.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status = ?",
				userID, productID, models.OrderStatusDelivered).
			Count(&count).Error; err != nil {
			return err
		}
		review.IsVerifiedPurchase = count > 0
	}

	if err := h.db.Create(&review).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review submitted and awaiting approval",
	})
}

// ListReviews returns reviews for moderation (admin only).
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.ProductReview{})

	if c.Query("pending") == "true" {
		query = query.Where("is_approved = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var reviews []models.ProductReview
	if err := query.Preload("User").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&reviews).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ApproveReview publishes a review and refreshes the product's rating
// aggregates.
func (h *ReviewHandler) ApproveReview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		var review models.ProductReview
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "review not found")
			}
			return err
		}

		if err := tx.Model(&review).Update("is_approved", true).Error; err != nil {
			return err
		}

		if err := refreshProductRating(tx, review.ProductID); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true, "message": "Review approved"})
	})
}

// DeleteReview removes a review and refreshes the product's aggregates.
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		var review models.ProductReview
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "review not found")
			}
			return err
		}

		if err := tx.Delete(&review).Error; err != nil {
			return err
		}

		if err := refreshProductRating(tx, review.ProductID); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true, "message": "Review deleted"})
	})
}

func refreshProductRating(tx *gorm.DB, productID uuid.UUID) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.ProductReview{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&stats).Error; err != nil {
		return err
	}

	return tx.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"average_rating": stats.Avg,
			"total_reviews":  stats.Count,
		}).Error
}
