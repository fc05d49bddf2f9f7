package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory groups the products shown on the bar product grid.
type ProductCategory struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product is something the bar sells. Prices differ for tables served
// inside (bar, restaurant) and outside (garden).
type Product struct {
	ID            int64               `json:"id" db:"id"`
	CategoryID    int64               `json:"category_id" db:"category_id"`
	Name          string              `json:"name" db:"name"`
	InsidePrice   decimal.NullDecimal `json:"inside_price" db:"inside_price"`
	OutsidePrice  decimal.NullDecimal `json:"outside_price" db:"outside_price"`
	TaxPercentage decimal.Decimal     `json:"tax_percentage" db:"tax_percentage"`
	IsDeleted     bool                `json:"is_deleted" db:"is_deleted"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
	CategoryName  *string             `json:"category_name,omitempty"` // joined from product_categories
}

// PriceFor returns the price charged at a table in the given location.
// A missing price is charged as zero.
func (p *Product) PriceFor(location TableLocation) decimal.Decimal {
	price := p.InsidePrice
	if location == TableLocationGarden {
		price = p.OutsidePrice
	}
	if !price.Valid {
		return decimal.Zero
	}
	return price.Decimal
}
