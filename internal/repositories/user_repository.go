package repositories

import (
	"context"

	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

// UserRepository defines the data access contract for users. CreateWithProfile
// persists a user and their empty profile as a single transactional unit so a
// crash can never leave an account without a profile.
type UserRepository interface {
	CreateWithProfile(ctx context.Context, user models.User, profile models.Profile) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

// ProfileRepository defines data access for the extended profile records.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (models.Profile, error)
	ViewByUserID(ctx context.Context, userID string) (models.ProfileView, error)
	Update(ctx context.Context, profile models.Profile) error
	List(ctx context.Context, limit, offset int) ([]models.ProfileView, error)
}
