package services

import (
	"fmt"
	"sync"

	"qwiik/internal/models"
	"qwiik/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartOwner identifies whose cart an operation targets and which backing
// store holds it: the device-scoped guest store or the account-scoped remote
// store. A cart is owned by exactly one of the two, never both.
type CartOwner struct {
	ID            string
	Authenticated bool
}

// GuestOwner returns an owner key for a device-scoped guest cart.
func GuestOwner(deviceID string) CartOwner {
	return CartOwner{ID: deviceID}
}

// AccountOwner returns an owner key for an authenticated account cart.
func AccountOwner(userID string) CartOwner {
	return CartOwner{ID: userID, Authenticated: true}
}

// CartService is the single source of truth for carts. It reconciles the two
// backing stores and guarantees that the state it reports never diverges from
// what the store will return on the next read: every mutation is
// read-compute-write against the live store, and a failed write is surfaced
// instead of being presented as committed.
type CartService struct {
	guestRepo   repositories.CartRepository
	accountRepo repositories.CartRepository

	// mu serializes mutations. Two rapid AddItem calls for the same product
	// must not both read a stale quantity and each add on top of it; the new
	// quantity is always computed from the current store state inside the
	// critical section.
	mu sync.Mutex
}

// NewCartService creates a new CartService over the guest and account stores.
func NewCartService(guestRepo, accountRepo repositories.CartRepository) *CartService {
	return &CartService{
		guestRepo:   guestRepo,
		accountRepo: accountRepo,
	}
}

func (s *CartService) repoFor(owner CartOwner) repositories.CartRepository {
	if owner.Authenticated {
		return s.accountRepo
	}
	return s.guestRepo
}

// Items returns the cart lines for an owner in display order.
func (s *CartService) Items(owner CartOwner) ([]models.CartItem, error) {
	items, err := s.repoFor(owner).GetItems(owner.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return items, nil
}

// AddItem adds a quantity of a product to the cart. If a line for the product
// already exists its quantity is summed with the requested one; otherwise a
// new line is appended with the product's current price snapshotted.
func (s *CartService) AddItem(owner CartOwner, product *models.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repoFor(owner)
	existing, err := repo.GetItem(owner.ID, product.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if existing != nil {
		if err := repo.UpdateQuantity(owner.ID, product.ID, existing.Quantity+quantity); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return nil
	}

	position, err := s.nextPosition(repo, owner.ID)
	if err != nil {
		return err
	}
	item := &models.CartItem{
		OwnerID:     owner.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Image:       product.Image,
		UnitPrice:   product.Price,
		Quantity:    quantity,
		Position:    position,
	}
	if err := repo.Save(item); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// RemoveItem removes a product's line from the cart. Removing an absent
// product is a no-op, not an error.
func (s *CartService) RemoveItem(owner CartOwner, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repoFor(owner).Delete(owner.ID, productID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// SetQuantity replaces a line's quantity in place, preserving its position.
// A quantity of zero or below is equivalent to RemoveItem.
func (s *CartService) SetQuantity(owner CartOwner, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(owner, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repoFor(owner)
	existing, err := repo.GetItem(owner.ID, productID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing == nil {
		return fmt.Errorf("%w: product %s is not in the cart", ErrNotFound, productID)
	}
	if err := repo.UpdateQuantity(owner.ID, productID, quantity); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Clear empties the cart and removes its persisted representation.
func (s *CartService) Clear(owner CartOwner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repoFor(owner).Clear(owner.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Total returns the sum of unit price times quantity over all lines.
func (s *CartService) Total(owner CartOwner) (decimal.Decimal, error) {
	items, err := s.Items(owner)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total, nil
}

// Count returns the sum of quantities over all lines, for UI badges.
func (s *CartService) Count(owner CartOwner) (int, error) {
	items, err := s.Items(owner)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count, nil
}

// MergeGuestCart folds a device-scoped guest cart into an account cart when
// the guest authenticates. On a product collision the quantities are summed,
// mirroring AddItem semantics; lines only in the guest cart are appended
// after the account cart's existing lines, whose order is preserved. The
// guest store is cleared only after every account write succeeded, so a
// persistence failure never loses the guest cart.
func (s *CartService) MergeGuestCart(deviceID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	guestItems, err := s.guestRepo.GetItems(deviceID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(guestItems) == 0 {
		return nil
	}

	accountItems, err := s.accountRepo.GetItems(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	byProduct := make(map[string]models.CartItem, len(accountItems))
	maxPosition := 0
	for _, item := range accountItems {
		byProduct[item.ProductID] = item
		if item.Position > maxPosition {
			maxPosition = item.Position
		}
	}

	for _, guestItem := range guestItems {
		if existing, ok := byProduct[guestItem.ProductID]; ok {
			err = s.accountRepo.UpdateQuantity(userID, guestItem.ProductID, existing.Quantity+guestItem.Quantity)
		} else {
			maxPosition++
			merged := &models.CartItem{
				OwnerID:     userID,
				ProductID:   guestItem.ProductID,
				ProductName: guestItem.ProductName,
				Image:       guestItem.Image,
				UnitPrice:   guestItem.UnitPrice,
				Quantity:    guestItem.Quantity,
				Position:    maxPosition,
			}
			err = s.accountRepo.Save(merged)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	// The account store is authoritative from here on.
	if err := s.guestRepo.Clear(deviceID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *CartService) nextPosition(repo repositories.CartRepository, ownerID string) (int, error) {
	items, err := repo.GetItems(ownerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	max := 0
	for _, item := range items {
		if item.Position > max {
			max = item.Position
		}
	}
	return max + 1, nil
}
