package models

import "github.com/google/uuid"

// CartItem is one (product, variant, quantity) line owned by either a
// registered user or an anonymous guest session, never both. At most one
// row exists per (owner, product_id, variant_id); a NULL variant is a
// distinct key from any concrete variant.
type CartItem struct {
	BaseModel
	UserID         *uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	GuestSessionID *string         `gorm:"index" json:"guest_session_id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;index" json:"product_id"`
	Product        *Product        `json:"product,omitempty"`
	VariantID      *uuid.UUID      `gorm:"type:uuid" json:"variant_id"`
	Variant        *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Quantity       int             `json:"quantity"`
}

// TableName keeps the historical table name.
func (CartItem) TableName() string {
	return "cart"
}
