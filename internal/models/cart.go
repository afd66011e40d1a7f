package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem represents a single line in a cart. A cart holds at most one line
// per product; the unit price is snapshotted when the product is first added
// and never re-fetched. Position preserves insertion order for display.
type CartItem struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	OwnerID     string          `json:"-" gorm:"uniqueIndex:idx_owner_product,priority:1;type:varchar(64)"`
	ProductID   string          `json:"product_id" gorm:"uniqueIndex:idx_owner_product,priority:2;type:varchar(36)"`
	ProductName string          `json:"product_name"`
	Image       string          `json:"image"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2)"`
	Quantity    int             `json:"quantity"`
	Position    int             `json:"-" gorm:"index"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// Subtotal returns unit price times quantity for this line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
