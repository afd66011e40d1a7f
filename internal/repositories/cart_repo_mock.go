package repositories

import (
	"fmt"
	"sort"
	"sync"

	"qwiik/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	items map[string]map[string]models.CartItem // ownerID -> productID -> item
	mu    sync.RWMutex

	// FailWrites makes every mutating call return an error. Tests use it to
	// simulate a backing store outage.
	FailWrites bool
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		items: make(map[string]map[string]models.CartItem),
	}
}

// GetItems returns all lines for an owner ordered by position.
func (r *MockCartRepository) GetItems(ownerID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.CartItem, 0, len(r.items[ownerID]))
	for _, item := range r.items[ownerID] {
		itemList = append(itemList, item)
	}
	sort.Slice(itemList, func(i, j int) bool {
		return itemList[i].Position < itemList[j].Position
	})
	return itemList, nil
}

// GetItem returns a line by owner and product, or nil if absent.
func (r *MockCartRepository) GetItem(ownerID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[ownerID][productID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// Save inserts or replaces a line.
func (r *MockCartRepository) Save(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWrites {
		return fmt.Errorf("simulated write failure for owner %s", item.OwnerID)
	}
	if r.items[item.OwnerID] == nil {
		r.items[item.OwnerID] = make(map[string]models.CartItem)
	}
	r.items[item.OwnerID][item.ProductID] = *item
	return nil
}

// UpdateQuantity replaces the quantity of an existing line.
func (r *MockCartRepository) UpdateQuantity(ownerID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWrites {
		return fmt.Errorf("simulated write failure for owner %s", ownerID)
	}
	item, ok := r.items[ownerID][productID]
	if !ok {
		return fmt.Errorf("cart item %s not found for owner %s", productID, ownerID)
	}
	item.Quantity = quantity
	r.items[ownerID][productID] = item
	return nil
}

// Delete removes a line. Absent lines are ignored.
func (r *MockCartRepository) Delete(ownerID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWrites {
		return fmt.Errorf("simulated write failure for owner %s", ownerID)
	}
	delete(r.items[ownerID], productID)
	return nil
}

// Clear removes all lines for an owner.
func (r *MockCartRepository) Clear(ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWrites {
		return fmt.Errorf("simulated write failure for owner %s", ownerID)
	}
	delete(r.items, ownerID)
	return nil
}
