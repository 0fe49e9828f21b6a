package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
	"github.com/tutorhub/backend/internal/repository"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// PasswordHasher hides the hash scheme from the service layer.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type AuthService struct {
	users     UserStore
	tokens    TokenIssuer
	passwords PasswordHasher
	clock     Clock
	logger    *zap.Logger
}

func NewAuthService(
	users UserStore,
	tokens TokenIssuer,
	passwords PasswordHasher,
	clock Clock,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		clock:     clock,
		logger:    logger,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func parseRole(raw string) (model.UserRole, error) {
	switch model.UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case model.RoleTeacher:
		return model.RoleTeacher, nil
	case model.RoleStudent:
		return model.RoleStudent, nil
	}
	return "", ErrInvalidRole
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// generateStudentCode draws random 9-digit codes until a free one is found.
// After 20 collisions it falls back to 10 digits.
func (s *AuthService) generateStudentCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 21; attempt++ {
		digits := 9
		if attempt == 20 {
			digits = 10
		}
		code, err := randomDigits(digits)
		if err != nil {
			return "", fmt.Errorf("generate student code: %w", err)
		}
		exists, err := s.users.StudentCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check student code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("generate student code: exhausted attempts")
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		if i == 0 && d.Int64() == 0 {
			d = big.NewInt(1)
		}
		fmt.Fprintf(&b, "%d", d.Int64())
	}
	return b.String(), nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") || len(email) > 320 {
		return nil, ErrInvalidInput
	}
	if len(in.Password) < 6 || len(in.Password) > 128 {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 200 {
		return nil, ErrInvalidInput
	}

	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if role == model.RoleStudent {
		code, err := s.generateStudentCode(ctx)
		if err != nil {
			return nil, err
		}
		user.StudentCode = &code
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
	)

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !user.IsActive || !s.passwords.Compare(user.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
