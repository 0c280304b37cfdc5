package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/deshimart/internal/middleware"
	"github.com/example/deshimart/internal/services"
)

// CartHandler manages cart endpoints for both guests and users.
type CartHandler struct {
	cart *services.CartService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// GetCart returns the principal's cart with live prices and subtotal.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	summary, err := h.cart.ListItems(p)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": summary})
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// AddToCart adds a product (optionally a variant) to the cart.
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var variantID *uuid.UUID
	if req.VariantID != "" {
		id, err := uuid.Parse(req.VariantID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid variant id")
		}
		variantID = &id
	}

	if err := h.cart.AddItem(p, productID, variantID, req.Quantity); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Item added to cart"})
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem replaces the quantity of a cart line.
func (h *CartHandler) UpdateCartItem(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	lineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.cart.SetQuantity(p, lineID, req.Quantity); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Cart updated"})
}

// RemoveCartItem deletes a cart line; removing an absent line succeeds.
func (h *CartHandler) RemoveCartItem(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	lineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.cart.RemoveItem(p, lineID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Item removed from cart"})
}

// ClearCart removes every line from the principal's cart.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	if err := h.cart.Clear(p); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Cart cleared"})
}
