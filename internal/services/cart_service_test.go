package services_test

import (
	"sync"
	"testing"

	"qwiik/internal/models"
	"qwiik/internal/repositories"
	"qwiik/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestCartService() (*services.CartService, *repositories.MockCartRepository, *repositories.MockCartRepository) {
	guestRepo := repositories.NewMockCartRepository()
	accountRepo := repositories.NewMockCartRepository()
	return services.NewCartService(guestRepo, accountRepo), guestRepo, accountRepo
}

func testProduct(id, name string, price float64) *models.Product {
	return &models.Product{
		ID:    id,
		Name:  name,
		Price: decimal.NewFromFloat(price),
		Stock: 100,
	}
}

func TestCartService_AddItem(t *testing.T) {
	service, _, _ := newTestCartService()
	owner := services.GuestOwner("device-1")
	mouse := testProduct("prod-1", "Mouse", 25.00)

	// Adding the same product twice produces a single line with summed quantity
	assert.NoError(t, service.AddItem(owner, mouse, 2))
	assert.NoError(t, service.AddItem(owner, mouse, 3))

	items, err := service.Items(owner)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromFloat(25.00)))

	// Quantity below one is rejected and leaves the cart untouched
	err = service.AddItem(owner, mouse, 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	err = service.AddItem(owner, mouse, -2)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	items, _ = service.Items(owner)
	assert.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_AddItem_PreservesInsertionOrder(t *testing.T) {
	service, _, _ := newTestCartService()
	owner := services.GuestOwner("device-1")

	assert.NoError(t, service.AddItem(owner, testProduct("prod-1", "Mouse", 25.00), 1))
	assert.NoError(t, service.AddItem(owner, testProduct("prod-2", "Keyboard", 75.00), 1))
	assert.NoError(t, service.AddItem(owner, testProduct("prod-3", "Laptop", 1200.00), 1))

	items, err := service.Items(owner)
	assert.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "prod-1", items[0].ProductID)
	assert.Equal(t, "prod-2", items[1].ProductID)
	assert.Equal(t, "prod-3", items[2].ProductID)
}

func TestCartService_ConcurrentAddsAreSerialized(t *testing.T) {
	service, _, _ := newTestCartService()
	owner := services.GuestOwner("device-1")
	mouse := testProduct("prod-1", "Mouse", 25.00)

	// Two rapid adds for the same product must not both read the initial
	// quantity and overwrite each other.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, service.AddItem(owner, mouse, 1))
		}()
	}
	wg.Wait()

	items, err := service.Items(owner)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_SetQuantity(t *testing.T) {
	service, _, _ := newTestCartService()
	owner := services.GuestOwner("device-1")

	assert.NoError(t, service.AddItem(owner, testProduct("prod-1", "Mouse", 25.00), 2))
	assert.NoError(t, service.AddItem(owner, testProduct("prod-2", "Keyboard", 75.00), 1))

	// Replace, not add
	assert.NoError(t, service.SetQuantity(owner, "prod-1", 7))
	items, _ := service.Items(owner)
	assert.Equal(t, 7, items[0].Quantity)
	// Position is preserved
	assert.Equal(t, "prod-1", items[0].ProductID)

	// Zero removes the line, matching RemoveItem
	assert.NoError(t, service.SetQuantity(owner, "prod-1", 0))
	items, _ = service.Items(owner)
	assert.Len(t, items, 1)
	assert.Equal(t, "prod-2", items[0].ProductID)

	// Updating a product that is not in the cart is an error
	err := service.SetQuantity(owner, "prod-99", 3)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	service, _, _ := newTestCartService()
	owner := services.GuestOwner("device-1")

	assert.NoError(t, service.AddItem(owner, testProduct("prod-1", "Mouse", 25.00), 2))
	assert.NoError(t, service.RemoveItem(owner, "prod-1"))

	items, _ := service.Items(owner)
	assert.Empty(t, items)

	// Removing an absent product is a no-op
	assert.NoError(t, service.RemoveItem(owner, "prod-1"))
}

func TestCartService_TotalAndCount(t *testing.T) {
	service, _, _ := newTestCartService()
	owner := services.GuestOwner("device-1")

	assert.NoError(t, service.AddItem(owner, testProduct("prod-1", "Mouse", 19.99), 2))

	total, err := service.Total(owner)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(39.98)), "expected 39.98, got %s", total)

	count, err := service.Count(owner)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.NoError(t, service.RemoveItem(owner, "prod-1"))

	total, err = service.Total(owner)
	assert.NoError(t, err)
	assert.True(t, total.IsZero())

	count, err = service.Count(owner)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCartService_Clear(t *testing.T) {
	service, _, _ := newTestCartService()
	owner := services.AccountOwner("user-1")

	assert.NoError(t, service.AddItem(owner, testProduct("prod-1", "Mouse", 25.00), 1))
	assert.NoError(t, service.AddItem(owner, testProduct("prod-2", "Keyboard", 75.00), 1))

	assert.NoError(t, service.Clear(owner))

	items, _ := service.Items(owner)
	assert.Empty(t, items)
}

func TestCartService_OwnerStoresAreIsolated(t *testing.T) {
	service, _, _ := newTestCartService()
	guest := services.GuestOwner("device-1")
	account := services.AccountOwner("user-1")

	assert.NoError(t, service.AddItem(guest, testProduct("prod-1", "Mouse", 25.00), 1))

	items, err := service.Items(account)
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_MergeGuestCart(t *testing.T) {
	service, guestRepo, _ := newTestCartService()
	guest := services.GuestOwner("device-1")
	account := services.AccountOwner("user-1")

	// Account cart: [{A, 2}]. Guest cart: [{A, 1}, {B, 3}].
	assert.NoError(t, service.AddItem(account, testProduct("prod-A", "Product A", 10.00), 2))
	assert.NoError(t, service.AddItem(guest, testProduct("prod-A", "Product A", 10.00), 1))
	assert.NoError(t, service.AddItem(guest, testProduct("prod-B", "Product B", 20.00), 3))

	assert.NoError(t, service.MergeGuestCart("device-1", "user-1"))

	// Result: [{A, 3}, {B, 3}], account order first.
	items, err := service.Items(account)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "prod-A", items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "prod-B", items[1].ProductID)
	assert.Equal(t, 3, items[1].Quantity)

	// The guest store is emptied after the merge
	guestItems, err := guestRepo.GetItems("device-1")
	assert.NoError(t, err)
	assert.Empty(t, guestItems)
}

func TestCartService_MergeGuestCart_EmptyGuest(t *testing.T) {
	service, _, _ := newTestCartService()
	account := services.AccountOwner("user-1")

	assert.NoError(t, service.AddItem(account, testProduct("prod-A", "Product A", 10.00), 2))

	assert.NoError(t, service.MergeGuestCart("device-1", "user-1"))

	items, _ := service.Items(account)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_MergeGuestCart_AccountWriteFailureKeepsGuestCart(t *testing.T) {
	service, guestRepo, accountRepo := newTestCartService()
	guest := services.GuestOwner("device-1")

	assert.NoError(t, service.AddItem(guest, testProduct("prod-B", "Product B", 20.00), 3))

	accountRepo.FailWrites = true
	err := service.MergeGuestCart("device-1", "user-1")
	assert.ErrorIs(t, err, services.ErrPersistence)

	// The guest cart must survive a failed merge
	guestItems, getErr := guestRepo.GetItems("device-1")
	assert.NoError(t, getErr)
	assert.Len(t, guestItems, 1)
	assert.Equal(t, 3, guestItems[0].Quantity)
}

func TestCartService_WriteFailureLeavesStateConsistent(t *testing.T) {
	service, guestRepo, _ := newTestCartService()
	owner := services.GuestOwner("device-1")
	mouse := testProduct("prod-1", "Mouse", 25.00)

	assert.NoError(t, service.AddItem(owner, mouse, 2))

	guestRepo.FailWrites = true

	err := service.AddItem(owner, mouse, 1)
	assert.ErrorIs(t, err, services.ErrPersistence)
	err = service.SetQuantity(owner, "prod-1", 9)
	assert.ErrorIs(t, err, services.ErrPersistence)
	err = service.RemoveItem(owner, "prod-1")
	assert.ErrorIs(t, err, services.ErrPersistence)
	err = service.Clear(owner)
	assert.ErrorIs(t, err, services.ErrPersistence)

	guestRepo.FailWrites = false

	// The cart still reflects the last committed state
	items, getErr := service.Items(owner)
	assert.NoError(t, getErr)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}
