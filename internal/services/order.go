package services

import (
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/deshimart/internal/config"
	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/utils"
)

// OrderService turns a persisted cart into an order: validation,
// pricing, stock decrement and cart clearing in one transaction.
type OrderService struct {
	db       *gorm.DB
	cfg      *config.Config
	mailer   *Mailer
	telegram *TelegramService
	log      *zap.Logger
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB, cfg *config.Config, mailer *Mailer, telegram *TelegramService, log *zap.Logger) *OrderService {
	return &OrderService{db: db, cfg: cfg, mailer: mailer, telegram: telegram, log: log}
}

// CheckoutInput is the checkout form. Billing fields may be omitted
// when BillingSameAsShipping is set.
type CheckoutInput struct {
	ShippingName         string `json:"shipping_name"`
	ShippingPhone        string `json:"shipping_phone"`
	ShippingEmail        string `json:"shipping_email"`
	ShippingAddressLine1 string `json:"shipping_address_line1"`
	ShippingAddressLine2 string `json:"shipping_address_line2"`
	ShippingCity         string `json:"shipping_city"`
	ShippingState        string `json:"shipping_state"`
	ShippingPostalCode   string `json:"shipping_postal_code"`
	ShippingCountry      string `json:"shipping_country"`

	BillingSameAsShipping bool   `json:"billing_same_as_shipping"`
	BillingName           string `json:"billing_name"`
	BillingPhone          string `json:"billing_phone"`
	BillingEmail          string `json:"billing_email"`
	BillingAddressLine1   string `json:"billing_address_line1"`
	BillingAddressLine2   string `json:"billing_address_line2"`
	BillingCity           string `json:"billing_city"`
	BillingState          string `json:"billing_state"`
	BillingPostalCode     string `json:"billing_postal_code"`
	BillingCountry        string `json:"billing_country"`

	Notes string `json:"notes"`
}

// Validate checks the shipping contact fields before any mutation.
func (in *CheckoutInput) Validate() error {
	if strings.TrimSpace(in.ShippingName) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(strings.TrimSpace(in.ShippingPhone)) < 10 {
		return fmt.Errorf("%w: valid phone number is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.ShippingEmail); err != nil {
		return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len(strings.TrimSpace(in.ShippingAddressLine1)) < 5 {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.ShippingCity) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	if in.ShippingCountry == "" {
		in.ShippingCountry = "Bangladesh"
	}
	return nil
}

// Checkout assembles an order from the principal's currently persisted
// cart. Prices are re-derived from the catalog, never taken from the
// client. Order creation, item snapshots, conditional stock decrements
// and cart clearing commit or roll back as one unit; a failed decrement
// aborts the whole order with ErrOutOfStock.
func (s *OrderService) Checkout(p models.Principal, in CheckoutInput) (*models.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := ownerScope(tx.Clauses(clause.Locking{Strength: "UPDATE"}), p).
			Preload("Product").Preload("Variant").
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var subtotal float64
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if line.Product == nil || !line.Product.IsActive {
				return fmt.Errorf("%w: a cart item is no longer available", ErrInvalidInput)
			}

			unitPrice := line.Product.Price
			variantDetails := ""
			if line.Variant != nil {
				unitPrice += line.Variant.PriceModifier
				variantDetails = fmt.Sprintf("%s: %s", line.Variant.VariantName, line.Variant.VariantValue)
			}

			productID := line.ProductID
			item := models.OrderItem{
				ProductID:      &productID,
				ProductName:    line.Product.Name,
				ProductSKU:     line.Product.SKU,
				VariantID:      line.VariantID,
				VariantDetails: variantDetails,
				Quantity:       line.Quantity,
				Price:          unitPrice,
				Total:          unitPrice * float64(line.Quantity),
			}
			subtotal += item.Total
			items = append(items, item)
		}

		shippingCost := ShippingCost(in.ShippingCity, s.cfg.ShippingInsideDhaka, s.cfg.ShippingOutsideDhaka)
		tax, discount := 0.0, 0.0

		order = models.Order{
			OrderNumber:   utils.GenerateOrderNumber(),
			Status:        models.OrderStatusPending,
			Subtotal:      subtotal,
			ShippingCost:  shippingCost,
			Tax:           tax,
			Discount:      discount,
			Total:         subtotal + shippingCost + tax - discount,
			PaymentMethod: models.PaymentMethodCashOnDelivery,
			PaymentStatus: models.PaymentStatusPending,

			ShippingName:         in.ShippingName,
			ShippingPhone:        in.ShippingPhone,
			ShippingEmail:        in.ShippingEmail,
			ShippingAddressLine1: in.ShippingAddressLine1,
			ShippingAddressLine2: in.ShippingAddressLine2,
			ShippingCity:         in.ShippingCity,
			ShippingState:        in.ShippingState,
			ShippingPostalCode:   in.ShippingPostalCode,
			ShippingCountry:      in.ShippingCountry,

			Notes: in.Notes,
			Items: items,
		}

		if p.IsUser() {
			userID := p.UserID
			order.UserID = &userID
		} else {
			order.GuestEmail = in.ShippingEmail
		}

		if in.BillingSameAsShipping {
			order.BillingName = in.ShippingName
			order.BillingPhone = in.ShippingPhone
			order.BillingEmail = in.ShippingEmail
			order.BillingAddressLine1 = in.ShippingAddressLine1
			order.BillingAddressLine2 = in.ShippingAddressLine2
			order.BillingCity = in.ShippingCity
			order.BillingState = in.ShippingState
			order.BillingPostalCode = in.ShippingPostalCode
			order.BillingCountry = in.ShippingCountry
		} else {
			order.BillingName = in.BillingName
			order.BillingPhone = in.BillingPhone
			order.BillingEmail = in.BillingEmail
			order.BillingAddressLine1 = in.BillingAddressLine1
			order.BillingAddressLine2 = in.BillingAddressLine2
			order.BillingCity = in.BillingCity
			order.BillingState = in.BillingState
			order.BillingPostalCode = in.BillingPostalCode
			order.BillingCountry = in.BillingCountry
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			// Guarded decrement: zero rows affected means another
			// checkout got there first and the whole order aborts.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
				Updates(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity - ?", line.Quantity),
					"total_sales":    gorm.Expr("total_sales + ?", line.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrOutOfStock, line.Product.Name)
			}

			if line.VariantID != nil {
				res := tx.Model(&models.ProductVariant{}).
					Where("id = ? AND stock_quantity >= ?", *line.VariantID, line.Quantity).
					Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("%w: %s", ErrOutOfStock, line.Product.Name)
				}
			}
		}

		return ownerScope(tx, p).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	go s.notifyOrderPlaced(order)

	return &order, nil
}

// notifyOrderPlaced sends the confirmation email and the admin Telegram
// message after commit. Best effort: failures are logged, never surfaced.
func (s *OrderService) notifyOrderPlaced(order models.Order) {
	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(&order); err != nil {
			s.log.Warn("order confirmation email failed",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err))
		}
	}
	if s.telegram != nil {
		if err := s.telegram.NotifyNewOrder(&order); err != nil {
			s.log.Warn("telegram order notification failed",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err))
		}
	}
}
