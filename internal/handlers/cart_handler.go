package handlers

import (
	"log"

	"qwiik/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	cartService    *services.CartService
	productService *services.ProductService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, productService *services.ProductService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/merge", h.HandleMerge)
}

// HandleGetCart returns the cart lines with total and count.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	owner, err := cartOwner(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart owner could not be determined",
			"error":   err.Error(),
		})
	}

	items, err := h.cartService.Items(owner)
	if err != nil {
		log.Printf("Error getting cart for %s: %v", owner.ID, err)
		return serviceError(c, err)
	}
	total, err := h.cartService.Total(owner)
	if err != nil {
		return serviceError(c, err)
	}
	count, err := h.cartService.Count(owner)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": total.StringFixed(2),
		"count": count,
	})
}

// AddItemRequest represents the request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleAddItem adds a quantity of a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	owner, err := cartOwner(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart owner could not be determined",
			"error":   err.Error(),
		})
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}

	product, err := h.productService.GetProductByID(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
			"error":   err.Error(),
		})
	}

	if err := h.cartService.AddItem(owner, product, req.Quantity); err != nil {
		log.Printf("Error adding product %s to cart: %v", req.ProductID, err)
		return serviceError(c, err)
	}

	count, _ := h.cartService.Count(owner)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": product.Name + " was added to your cart",
		"count":   count,
	})
}

// SetQuantityRequest represents the request body for updating a line quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleSetQuantity replaces a line's quantity. A quantity of zero removes
// the line.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	owner, err := cartOwner(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart owner could not be determined",
			"error":   err.Error(),
		})
	}

	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing quantity request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	productID := c.Params("productId")
	if err := h.cartService.SetQuantity(owner, productID, req.Quantity); err != nil {
		log.Printf("Error updating quantity for product %s: %v", productID, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Cart updated",
	})
}

// HandleRemoveItem removes a product's line from the cart. Removing an
// absent product succeeds.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	owner, err := cartOwner(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart owner could not be determined",
			"error":   err.Error(),
		})
	}

	productID := c.Params("productId")
	if err := h.cartService.RemoveItem(owner, productID); err != nil {
		log.Printf("Error removing product %s from cart: %v", productID, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
	})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	owner, err := cartOwner(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart owner could not be determined",
			"error":   err.Error(),
		})
	}

	if err := h.cartService.Clear(owner); err != nil {
		log.Printf("Error clearing cart for %s: %v", owner.ID, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// MergeRequest represents the request body for merging a guest cart into the
// authenticated account cart after login.
type MergeRequest struct {
	GuestID string `json:"guest_id"`
}

// HandleMerge merges the device-scoped guest cart into the account cart.
// Requires authentication.
func (h *CartHandler) HandleMerge(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return serviceError(c, services.ErrAuthenticationRequired)
	}

	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing merge request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.GuestID == "" {
		req.GuestID = c.Get(guestIDHeader)
	}
	if req.GuestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "guest_id is required to merge carts",
		})
	}

	if err := h.cartService.MergeGuestCart(req.GuestID, userID); err != nil {
		log.Printf("Error merging guest cart %s into account %s: %v", req.GuestID, userID, err)
		return serviceError(c, err)
	}

	items, err := h.cartService.Items(services.AccountOwner(userID))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Carts merged",
		"items":   items,
	})
}
