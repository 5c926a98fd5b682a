package ports

import (
	"context"

	"github.com/icisct/conference-system/internal/core/domain"
)

// UserRepository defines user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
}

// SessionStore holds server-side sessions keyed by an opaque id.
type SessionStore interface {
	Create(ctx context.Context, id, userID string) error
	Get(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}
