package repositories

import (
	"fmt"
	"qwiik/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository. It is used
// for both backing stores: a PostgreSQL database for authenticated account
// carts and a SQLite database for device-scoped guest carts.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetItems retrieves all cart lines for an owner in display order.
func (r *GORMCartRepository) GetItems(ownerID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("owner_id = ?", ownerID).Order("position asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items for owner %s: %w", ownerID, err)
	}
	return items, nil
}

// GetItem retrieves a single cart line by owner and product, or nil if the
// line does not exist.
func (r *GORMCartRepository) GetItem(ownerID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "owner_id = ? AND product_id = ?", ownerID, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item %s for owner %s: %w", productID, ownerID, err)
	}
	return &item, nil
}

// Save inserts a cart line, or replaces quantity and position on conflict.
// The (owner_id, product_id) unique index guarantees at most one line per
// product in a cart.
func (r *GORMCartRepository) Save(item *models.CartItem) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "position", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		return fmt.Errorf("failed to save cart item %s for owner %s: %w", item.ProductID, item.OwnerID, err)
	}
	return nil
}

// UpdateQuantity replaces the quantity of an existing line in place.
func (r *GORMCartRepository) UpdateQuantity(ownerID, productID string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update quantity for cart item %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s not found for owner %s", productID, ownerID)
	}
	return nil
}

// Delete removes a line. Deleting an absent line is not an error.
func (r *GORMCartRepository) Delete(ownerID, productID string) error {
	if err := r.db.Delete(&models.CartItem{}, "owner_id = ? AND product_id = ?", ownerID, productID).Error; err != nil {
		return fmt.Errorf("failed to delete cart item %s for owner %s: %w", productID, ownerID, err)
	}
	return nil
}

// Clear removes every line belonging to an owner.
func (r *GORMCartRepository) Clear(ownerID string) error {
	if err := r.db.Delete(&models.CartItem{}, "owner_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for owner %s: %w", ownerID, err)
	}
	return nil
}
