package services

import (
	"fmt"

	"qwiik/internal/models"
	"qwiik/internal/repositories"
)

// legal order status transitions: pending -> completed, pending -> cancelled.
var orderTransitions = map[string][]string{
	models.OrderStatusPending: {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

// OrderService handles order history and status transitions. Orders are
// created by the checkout flow; this service only reads them back and guards
// status changes.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// GetOrdersForUser retrieves a user's order history, newest first.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return orders, nil
}

// GetOrderByID retrieves a single order, checking that it belongs to the
// requesting user. Orders of other users are reported as not found.
func (s *OrderService) GetOrderByID(id, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return order, nil
}

// UpdateOrderStatus transitions an order to a new status, rejecting anything
// outside pending -> completed and pending -> cancelled.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}

	allowed := false
	for _, next := range orderTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
