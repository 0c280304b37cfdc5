package models

import "github.com/google/uuid"

// Category is a catalog node; categories form a tree via ParentID.
type Category struct {
	BaseModel
	Name            string     `json:"name"`
	Slug            string     `gorm:"uniqueIndex" json:"slug"`
	Description     string     `json:"description"`
	ParentID        *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	ImageURL        string     `json:"image_url"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	SortOrder       int        `json:"sort_order"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	Children        []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// Product is a catalog entity. StockQuantity is the authoritative
// available-to-sell count; it decreases only via completed orders,
// never via cart activity.
type Product struct {
	BaseModel
	Name              string           `json:"name"`
	Slug              string           `gorm:"uniqueIndex" json:"slug"`
	SKU               string           `json:"sku"`
	Brand             string           `json:"brand"`
	Description       string           `json:"description"`
	LongDescription   string           `json:"long_description"`
	CategoryID        *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	Category          *Category        `json:"category,omitempty"`
	Price             float64          `json:"price"`
	ComparePrice      *float64         `json:"compare_price"`
	CostPrice         *float64         `json:"cost_price"`
	StockQuantity     int              `json:"stock_quantity"`
	LowStockThreshold int              `gorm:"default:5" json:"low_stock_threshold"`
	Weight            *float64         `json:"weight"`
	Dimensions        string           `json:"dimensions"`
	IsActive          bool             `gorm:"default:true" json:"is_active"`
	IsFeatured        bool             `json:"is_featured"`
	AverageRating     float64          `json:"average_rating"`
	TotalReviews      int              `json:"total_reviews"`
	TotalSales        int              `json:"total_sales"`
	MetaTitle         string           `json:"meta_title"`
	MetaDescription   string           `json:"meta_description"`
	MetaKeywords      string           `json:"meta_keywords"`
	Images            []ProductImage   `json:"images,omitempty"`
	Variants          []ProductVariant `json:"variants,omitempty"`
}

// ProductImage belongs to a product; at most one image should be primary.
type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	ImageURL  string    `json:"image_url"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
}

// ProductVariant carries its own stock count and a price modifier
// added to the parent product's price.
type ProductVariant struct {
	BaseModel
	ProductID     uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	VariantName   string    `json:"variant_name"`
	VariantValue  string    `json:"variant_value"`
	PriceModifier float64   `json:"price_modifier"`
	StockQuantity int       `json:"stock_quantity"`
	SKU           string    `json:"sku"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
}
