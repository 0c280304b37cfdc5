package models

import "github.com/google/uuid"

// ProductReview is a customer review, either by a registered user or a
// guest. Reviews are hidden until an admin approves them.
type ProductReview struct {
	BaseModel
	ProductID          uuid.UUID  `gorm:"type:uuid;index" json:"product_id"`
	UserID             *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User               *User      `json:"user,omitempty"`
	GuestName          string     `json:"guest_name"`
	GuestEmail         string     `json:"guest_email"`
	Rating             int        `json:"rating"`
	Title              string     `json:"title"`
	Comment            string     `json:"comment"`
	IsVerifiedPurchase bool       `json:"is_verified_purchase"`
	IsApproved         bool       `json:"is_approved"`
}

// WishlistItem marks a product saved by a user; unique per pair.
type WishlistItem struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
}

// TableName keeps the historical table name.
func (WishlistItem) TableName() string {
	return "wishlist"
}
