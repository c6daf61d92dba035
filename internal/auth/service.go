package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

// NewAdmin is the input for creating a back-office user.
type NewAdmin struct {
	Email    string `form:"email" validate:"required,email,max=254"`
	Name     string `form:"name" validate:"max=120"`
	Password string `form:"password" validate:"required,min=8,max=72"`
	Role     string `form:"role" validate:"required"`
}

// Service signs admins in and keeps the admin_users table.
type Service struct {
	repo     Repository
	cost     int
	validate *validator.Validate
}

// NewService constructs a Service hashing with bcrypt's default cost.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost, validate: shared.NewValidator()}
}

// decoyHash is compared against when the email is unknown, so a miss costs
// as much as a wrong password.
var decoyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("informreaders-decoy"), bcrypt.DefaultCost)
	return h
})

// Authenticate checks email and password. Unknown, inactive and mismatched
// accounts all yield shared.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, shared.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(password))
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil || !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// User loads an active user by id; inactive users read as not found.
func (s *Service) User(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	switch {
	case err != nil:
		return nil, err
	case !user.IsActive:
		return nil, shared.ErrNotFound
	}
	return user, nil
}

// RoleOf returns the current role of an active user.
func (s *Service) RoleOf(ctx context.Context, id int64) (string, error) {
	user, err := s.User(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// CreateAdmin hashes the password and stores a new back-office user. Input
// problems come back as *httpx.FieldError.
func (s *Service) CreateAdmin(ctx context.Context, email, name, password, role string) (int64, error) {
	in := NewAdmin{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Name:     strings.TrimSpace(name),
		Password: password,
		Role:     role,
	}
	if msgs := shared.ValidationMessages(s.validate.Struct(in)); len(msgs) > 0 {
		for _, field := range []string{"email", "password", "name", "role"} {
			if msg, ok := msgs[field]; ok {
				return 0, &httpx.FieldError{Field: field, Message: msg}
			}
		}
	}
	if !shared.ValidRole(in.Role) {
		return 0, &httpx.FieldError{Field: "role", Message: fmt.Sprintf("Unknown role %q.", in.Role)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return 0, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, User{Email: in.Email, Name: in.Name, PasswordHash: string(hash), Role: in.Role})
}

// RegisterSession records a sign-in in admin_sessions.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes the admin_sessions row of a signed-out session.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
