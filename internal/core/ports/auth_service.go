package ports

import (
	"context"

	"github.com/icisct/conference-system/internal/core/domain"
)

// RegisterInput carries everything needed to create an account.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Affiliation string
	Password    string
	Role        string
}

// AuthService implements registration, login, and the session lifecycle.
// The credential returned by Register and Login is opaque to callers; it is
// handed back verbatim on Me and Logout.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	// CreateAccount creates an account without establishing a session; used
	// by admins registering reviewer accounts.
	CreateAccount(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Me(ctx context.Context, credential string) (*domain.User, error)
	Logout(ctx context.Context, credential string) error
}
