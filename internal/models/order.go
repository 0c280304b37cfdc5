package models

import "github.com/google/uuid"

// Order lifecycle statuses. Transitions are admin-driven; cancelled is
// reachable from any pre-delivered state.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses and the single supported method.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// OrderStatuses lists every status the admin API accepts.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a completed checkout. Shipping and
// billing fields are copied into the row so later address edits cannot
// change the historical record.
type Order struct {
	BaseModel
	OrderNumber   string     `gorm:"uniqueIndex" json:"order_number"`
	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User          *User      `json:"user,omitempty"`
	GuestEmail    string     `json:"guest_email"`
	Status        string     `gorm:"default:pending" json:"status"`
	Subtotal      float64    `json:"subtotal"`
	ShippingCost  float64    `json:"shipping_cost"`
	Tax           float64    `json:"tax"`
	Discount      float64    `json:"discount"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `gorm:"default:pending" json:"payment_status"`

	ShippingName         string `json:"shipping_name"`
	ShippingPhone        string `json:"shipping_phone"`
	ShippingEmail        string `json:"shipping_email"`
	ShippingAddressLine1 string `json:"shipping_address_line1"`
	ShippingAddressLine2 string `json:"shipping_address_line2"`
	ShippingCity         string `json:"shipping_city"`
	ShippingState        string `json:"shipping_state"`
	ShippingPostalCode   string `json:"shipping_postal_code"`
	ShippingCountry      string `json:"shipping_country"`

	BillingName         string `json:"billing_name"`
	BillingPhone        string `json:"billing_phone"`
	BillingEmail        string `json:"billing_email"`
	BillingAddressLine1 string `json:"billing_address_line1"`
	BillingAddressLine2 string `json:"billing_address_line2"`
	BillingCity         string `json:"billing_city"`
	BillingState        string `json:"billing_state"`
	BillingPostalCode   string `json:"billing_postal_code"`
	BillingCountry      string `json:"billing_country"`

	Notes      string      `json:"notes"`
	AdminNotes string      `json:"admin_notes"`
	Items      []OrderItem `json:"items,omitempty"`
}

// OrderItem is a line captured at order-creation time. Name, SKU and
// price are denormalized on purpose: historical orders must not change
// when the catalog does.
type OrderItem struct {
	BaseModel
	OrderID        uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID      *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName    string     `json:"product_name"`
	ProductSKU     string     `json:"product_sku"`
	VariantID      *uuid.UUID `gorm:"type:uuid" json:"variant_id"`
	VariantDetails string     `json:"variant_details"`
	Quantity       int        `json:"quantity"`
	Price          float64    `json:"price"`
	Total          float64    `json:"total"`
}
