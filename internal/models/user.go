package models

import "gorm.io/gorm"

// User represents a user of the store.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Favorite marks a product as favorited by a user.
type Favorite struct {
	UserID    string `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"primaryKey;type:varchar(36)"`
}

// Address is a delivery address. It is saved on the profile for prefill on a
// later checkout and snapshotted onto orders.
type Address struct {
	Name       string `json:"name" validate:"required,max=100"`
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
}

// Profile holds account-scoped checkout preferences.
type Profile struct {
	UserID     string  `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	Address    Address `json:"address" gorm:"embedded;embeddedPrefix:addr_"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
