package handlers

import (
	"log"

	"qwiik/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FavoritesHandler handles HTTP requests for per-account favorites.
type FavoritesHandler struct {
	service *services.FavoritesService
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(service *services.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{
		service: service,
	}
}

// RegisterRoutes registers the favorites routes with the Fiber app. These
// sit behind authentication; guests get a login prompt instead.
func (h *FavoritesHandler) RegisterRoutes(router fiber.Router) {
	favoriteRoutes := router.Group("/favorites")
	favoriteRoutes.Get("/", h.HandleListFavorites)
	favoriteRoutes.Post("/:productId/toggle", h.HandleToggleFavorite)
	favoriteRoutes.Get("/:productId", h.HandleIsFavorite)
}

// HandleListFavorites returns the user's favorited products.
func (h *FavoritesHandler) HandleListFavorites(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return serviceError(c, services.ErrAuthenticationRequired)
	}

	products, err := h.service.List(userID)
	if err != nil {
		log.Printf("Error listing favorites for user %s: %v", userID, err)
		return serviceError(c, err)
	}
	return c.JSON(products)
}

// HandleToggleFavorite flips the favorite state of a product and reports the
// new state.
func (h *FavoritesHandler) HandleToggleFavorite(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return serviceError(c, services.ErrAuthenticationRequired)
	}

	productID := c.Params("productId")
	favorited, err := h.service.Toggle(userID, productID)
	if err != nil {
		log.Printf("Error toggling favorite %s for user %s: %v", productID, userID, err)
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id": productID,
		"favorited":  favorited,
	})
}

// HandleIsFavorite reports whether a product is favorited.
func (h *FavoritesHandler) HandleIsFavorite(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return serviceError(c, services.ErrAuthenticationRequired)
	}

	productID := c.Params("productId")
	favorited, err := h.service.IsFavorite(userID, productID)
	if err != nil {
		log.Printf("Error checking favorite %s for user %s: %v", productID, userID, err)
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id": productID,
		"favorited":  favorited,
	})
}
