package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/middleware"
	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/services"
	"github.com/example/deshimart/internal/utils"
)

// OrderHandler manages checkout, order reads and admin status updates.
type OrderHandler struct {
	db     *gorm.DB
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders}
}

// Checkout turns the principal's cart into an order. Guests are allowed.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req services.CheckoutInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.Checkout(p, req)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
		},
		"message": "Order placed successfully",
	})
}

// ListOrders returns orders: all of them for admins, the caller's own
// for users. Guests must track by order number instead.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	p, ok := middleware.GetPrincipal(c)
	if !ok || !p.IsUser() {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})
	if !p.IsAdmin() {
		query = query.Where("user_id = ?", p.UserID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns one order to its owner or an admin.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	p, ok := middleware.GetPrincipal(c)
	if !ok || !p.IsUser() {
		return fiber.NewError(fiber.StatusUnauthorized, "please login to view order details")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !p.IsAdmin() && (order.UserID == nil || *order.UserID != p.UserID) {
		return fiber.NewError(fiber.StatusForbidden, "forbidden")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// TrackOrder returns order status and items by order number. Public:
// the order number itself is the capability.
func (h *OrderHandler) TrackOrder(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	if orderNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "order number is required")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"order": order}})
}

type updateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
	AdminNotes    *string `json:"admin_notes"`
}

// UpdateOrder lets an admin change status, payment status or notes.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !models.ValidOrderStatus(*req.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
		updates["status"] = *req.Status
	}
	if req.PaymentStatus != nil {
		updates["payment_status"] = *req.PaymentStatus
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	res := h.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Order updated"})
}
