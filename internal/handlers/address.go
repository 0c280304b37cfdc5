package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/deshimart/internal/middleware"
	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/services"
)

// AddressHandler manages the user's saved addresses.
type AddressHandler struct {
	addresses *services.AddressService
}

// NewAddressHandler constructs AddressHandler.
func NewAddressHandler(addresses *services.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// ListAddresses returns the user's addresses, default first.
func (h *AddressHandler) ListAddresses(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	addresses, err := h.addresses.List(p.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": addresses})
}

type addressRequest struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
	AddressType  string `json:"address_type"`
}

// CreateAddress saves a new address; setting it default unsets others.
func (h *AddressHandler) CreateAddress(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	address := models.Address{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
		AddressType:  req.AddressType,
	}

	if err := h.addresses.Create(p.UserID, &address); err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": address.ID},
		"message": "Address added successfully",
	})
}

type updateAddressRequest struct {
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
	IsDefault    *bool   `json:"is_default"`
	AddressType  *string `json:"address_type"`
}

// UpdateAddress updates an address the user owns.
func (h *AddressHandler) UpdateAddress(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	setIf := func(key string, val *string) {
		if val != nil {
			updates[key] = *val
		}
	}
	setIf("full_name", req.FullName)
	setIf("phone", req.Phone)
	setIf("email", req.Email)
	setIf("address_line1", req.AddressLine1)
	setIf("address_line2", req.AddressLine2)
	setIf("city", req.City)
	setIf("state", req.State)
	setIf("postal_code", req.PostalCode)
	setIf("country", req.Country)
	setIf("address_type", req.AddressType)
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.addresses.Update(p.UserID, addressID, updates); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Address updated"})
}

// DeleteAddress removes an address the user owns.
func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.addresses.Delete(p.UserID, addressID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Address deleted"})
}
