package handlers

import (
	"log"

	"qwiik/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for order history. Orders are created
// by the checkout flow, never directly through this handler.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. These sit
// behind authentication: order history belongs to an account.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleGetOrders retrieves the authenticated user's order history.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return serviceError(c, services.ErrAuthenticationRequired)
	}

	orders, err := h.service.GetOrdersForUser(userID)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return serviceError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order belonging to the authenticated
// user.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return serviceError(c, services.ErrAuthenticationRequired)
	}

	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID, userID)
	if err != nil {
		log.Printf("Error getting order %s for user %s: %v", orderID, userID, err)
		return serviceError(c, err)
	}
	return c.JSON(order)
}
