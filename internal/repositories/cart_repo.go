package repositories

import (
	"qwiik/internal/models"
)

// CartRepository defines the interface for cart line data access. The same
// interface backs both the device-scoped guest store and the account-scoped
// remote store; the owner id selects the cart.
type CartRepository interface {
	GetItems(ownerID string) ([]models.CartItem, error)
	GetItem(ownerID, productID string) (*models.CartItem, error)
	Save(item *models.CartItem) error
	UpdateQuantity(ownerID, productID string, quantity int) error
	Delete(ownerID, productID string) error
	Clear(ownerID string) error
}
