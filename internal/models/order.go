package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Orders move pending -> completed or pending -> cancelled,
// never backwards.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Notification channels for order confirmations.
const (
	NotifyChannelEmail = "email"
	NotifyChannelSMS   = "sms"
)

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	OrderID     string          `json:"-" gorm:"index;type:varchar(36)"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"` // Price at the time of order
}

// Order represents a customer order.
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string          `json:"user_id" gorm:"index;type:varchar(64)"`
	Items            []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2)"`
	Status           string          `json:"status"`
	DeliveryAddress  Address         `json:"delivery_address" gorm:"embedded;embeddedPrefix:addr_"`
	NotifyChannel    string          `json:"notify_channel" gorm:"type:varchar(16)"`
	NotifyContact    string          `json:"notify_contact" gorm:"type:varchar(255)"`
	PaymentSessionID string          `json:"payment_session_id" gorm:"type:varchar(128)"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
