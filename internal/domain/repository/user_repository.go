package repository

import (
	"errors"

	"github.com/Jayasawar1325/backend-series/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a create violates the unique
	// email/username constraints. The store is the authority for
	// uniqueness; racing registrations surface here.
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related store operations.
// Email and username lookups are case-insensitive.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	ExistsByEmailOrUsername(email, username string) (bool, error)
	Update(u *entity.User) error
	UpdatePassword(id, hash string) error

	// SetRefreshToken writes the stored refresh token unconditionally;
	// nil clears it (logout).
	SetRefreshToken(id string, token *string) error
	// RotateRefreshToken replaces the stored refresh token only when it
	// still equals presented. The bool reports whether the swap happened;
	// a false means the presented token was already rotated out.
	RotateRefreshToken(id, presented, next string) (bool, error)

	// GetChannelProfile aggregates the subscription edges of the channel
	// matching username. viewerID may be empty; it only drives IsSubscribed.
	GetChannelProfile(username, viewerID string) (*entity.ChannelProfile, error)
	GetWatchHistory(id string) ([]string, error)
}
