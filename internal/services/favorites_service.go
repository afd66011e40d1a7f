package services

import (
	"fmt"

	"qwiik/internal/models"
	"qwiik/internal/repositories"
)

// FavoritesService handles business logic for per-account favorites.
// Favorites require an account; the handler layer rejects guests with
// ErrAuthenticationRequired before calling in here.
type FavoritesService struct {
	favoriteRepo repositories.FavoriteRepository
	productRepo  repositories.ProductRepository
}

// NewFavoritesService creates a new FavoritesService.
func NewFavoritesService(favoriteRepo repositories.FavoriteRepository, productRepo repositories.ProductRepository) *FavoritesService {
	return &FavoritesService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

// Toggle flips the favorite state of a product for a user and reports the
// new state: true when the product is now favorited.
func (s *FavoritesService) Toggle(userID, productID string) (bool, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return false, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	favorited, err := s.favoriteRepo.Exists(userID, productID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if favorited {
		if err := s.favoriteRepo.Remove(userID, productID); err != nil {
			return false, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return false, nil
	}
	if err := s.favoriteRepo.Add(userID, productID); err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return true, nil
}

// IsFavorite reports whether a product is favorited by a user.
func (s *FavoritesService) IsFavorite(userID, productID string) (bool, error) {
	favorited, err := s.favoriteRepo.Exists(userID, productID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return favorited, nil
}

// List returns the user's favorited products. Products that have been
// removed from the catalog since being favorited are skipped.
func (s *FavoritesService) List(userID string) ([]models.Product, error) {
	ids, err := s.favoriteRepo.List(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		product, err := s.productRepo.GetByID(id)
		if err != nil {
			continue
		}
		products = append(products, *product)
	}
	return products, nil
}
