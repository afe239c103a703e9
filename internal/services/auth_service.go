package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"asicshop/internal/apperr"
	"asicshop/internal/models"
	"asicshop/internal/repositories"
	"asicshop/internal/session"

	"go.uber.org/zap"
)

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Password string  `json:"password" validate:"required,max=255"`
	Country  *string `json:"country" validate:"omitempty,max=128"`
	City     *string `json:"city" validate:"omitempty,max=128"`
	Address  *string `json:"address"`
}

// LoginInput is the payload of a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput is a partial profile update. Absent fields are left untouched.
type ProfileInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=1,max=255"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Country  *string `json:"country" validate:"omitempty,max=128"`
	City     *string `json:"city" validate:"omitempty,max=128"`
	Address  *string `json:"address"`
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	User         *models.User `json:"user"`
	SessionToken string       `json:"sessionToken"`
}

// AuthService handles accounts and binds them to sessions.
type AuthService struct {
	users    repositories.UserRepository
	sessions session.Registry
	carts    *CartService
	log      *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, sessions session.Registry, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

// EnableCartMerge makes Register and Login move the caller's anonymous cart
// into the user's cart.
func (s *AuthService) EnableCartMerge(carts *CartService) {
	s.carts = carts
}

// Register creates an account and returns it with a fresh session token bound
// to it. current is the session the request arrived with.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, current session.Session) (*AuthResult, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByEmail(in.Email); err == nil && existing != nil {
		return nil, apperr.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Phone:    in.Phone,
		Country:  in.Country,
		City:     in.City,
		Address:  in.Address,
		IsActive: true,
	}
	// The store rejects a duplicate that slipped past the pre-check.
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.bind(ctx, user.ID, current)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return &AuthResult{User: user, SessionToken: token}, nil
}

// Login checks credentials and returns the user with a fresh session token.
func (s *AuthService) Login(ctx context.Context, in LoginInput, current session.Session) (*AuthResult, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(in.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(in.Password)) != 1 {
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	token, err := s.bind(ctx, user.ID, current)
	if err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.Uint("user_id", user.ID))
	return &AuthResult{User: user, SessionToken: token}, nil
}

// Logout ends the session identified by token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Detach(ctx, token)
}

// Me returns the user with the given ID.
func (s *AuthService) Me(userID uint) (*models.User, error) {
	return s.users.GetByID(userID)
}

// UpdateProfile merges in into the user's stored profile.
func (s *AuthService) UpdateProfile(userID uint, in ProfileInput) (*models.User, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	return s.users.Update(userID, models.UserUpdate{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Phone:    in.Phone,
		Country:  in.Country,
		City:     in.City,
		Address:  in.Address,
	})
}

// bind mints a new session for userID. The caller's previous token stays a
// separate session.
func (s *AuthService) bind(ctx context.Context, userID uint, current session.Session) (string, error) {
	sess, _, err := s.sessions.Resolve(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.sessions.Attach(ctx, sess.Token, userID); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	if s.carts != nil && current.Token != "" && current.Anonymous() {
		uid := userID
		from := models.Owner{SessionID: current.Token}
		to := models.Owner{UserID: &uid, SessionID: sess.Token}
		if err := s.carts.Merge(from, to); err != nil {
			// Login still succeeds; the anonymous cart stays where it was.
			s.log.Warn("cart merge failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return sess.Token, nil
}
