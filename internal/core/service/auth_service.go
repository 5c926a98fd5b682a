package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

const minPasswordLen = 6

// AuthService implements registration, login, and the server-held session
// lifecycle. The credential handed to clients is an HS256 JWT wrapping a
// random session id; the session itself lives in the SessionStore with a TTL.
// Clients treat the credential as opaque.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	jwtSecret  string
	sessionTTL time.Duration
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, jwtSecret string, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, jwtSecret: jwtSecret, sessionTTL: sessionTTL}
}

// SessionTTL returns the configured session lifetime, used by the HTTP layer
// to align the cookie's max age with the server-side session expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	created, err := s.CreateAccount(ctx, in)
	if err != nil {
		return nil, "", err
	}

	// Registration establishes a session immediately.
	credential, err := s.createSession(ctx, created.ID)
	if err != nil {
		return nil, "", err
	}
	return created, credential, nil
}

// CreateAccount creates an account without establishing a session.
func (s *AuthService) CreateAccount(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Affiliation:  in.Affiliation,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.users.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	credential, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, credential, nil
}

// Me resolves an opaque credential to the user it belongs to. Any failure
// along the chain (bad token, expired or revoked session, deleted user)
// collapses into ErrSessionNotFound so callers see one "no session" outcome.
func (s *AuthService) Me(ctx context.Context, credential string) (*domain.User, error) {
	sid, err := s.parseCredential(credential)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	userID, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes the session behind the credential. A credential that no
// longer maps to a session is not an error.
func (s *AuthService) Logout(ctx context.Context, credential string) error {
	sid, err := s.parseCredential(credential)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *AuthService) createSession(ctx context.Context, userID string) (string, error) {
	sid := uuid.NewString()
	if err := s.sessions.Create(ctx, sid, userID); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(s.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	credential, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return credential, nil
}

func (s *AuthService) parseCredential(credential string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrSessionNotFound
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrSessionNotFound
	}
	return sid, nil
}
