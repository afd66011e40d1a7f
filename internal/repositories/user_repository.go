package repositories

import "qwiik/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
}

// ProfileRepository defines the interface for profile data access.
type ProfileRepository interface {
	Get(userID string) (*models.Profile, error)
	Save(profile *models.Profile) error
}

// FavoriteRepository defines the interface for favorite data access.
type FavoriteRepository interface {
	List(userID string) ([]string, error)
	Exists(userID, productID string) (bool, error)
	Add(userID, productID string) error
	Remove(userID, productID string) error
}
