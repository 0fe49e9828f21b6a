package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
)

// EmailSender delivers transactional mail. Implementations must not block
// the caller for longer than the context allows.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type PasswordResetService struct {
	users     UserStore
	tokens    PasswordResetStore
	passwords PasswordHasher
	email     EmailSender
	ttl       time.Duration
	devMode   bool
	clock     Clock
	logger    *zap.Logger
}

func NewPasswordResetService(
	users UserStore,
	tokens PasswordResetStore,
	passwords PasswordHasher,
	email EmailSender,
	ttl time.Duration,
	devMode bool,
	clock Clock,
	logger *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		email:     email,
		ttl:       ttl,
		devMode:   devMode,
		clock:     clock,
		logger:    logger,
	}
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Request issues a reset token and mails it to the user. It never reveals
// whether the email has an account: unknown addresses return success too.
// In dev mode the raw token is returned so local flows work without a
// mailbox; in production the returned token is always empty.
func (s *PasswordResetService) Request(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if user == nil || !user.IsActive {
		return "", nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	now := s.clock.Now()
	record := &model.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\nYour reset code: %s\n\nThe code expires in %d minutes. If you did not request this, ignore this email.",
		token, int(s.ttl.Minutes()),
	)
	if err := s.email.Send(ctx, user.Email, "Password reset", body); err != nil {
		// Best effort: the token is stored, so delivery failure does not
		// fail the request and does not leak account existence.
		s.logger.Error("send reset email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("password reset requested", zap.String("user_id", user.ID.String()))

	if s.devMode {
		return token, nil
	}
	return "", nil
}

// Confirm exchanges a live token for a new password. The token is single
// use and its siblings are invalidated in the same transaction.
func (s *PasswordResetService) Confirm(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 || len(newPassword) > 128 {
		return ErrInvalidInput
	}

	record, err := s.tokens.GetByTokenHash(ctx, hashResetToken(token))
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	now := s.clock.Now()
	if record == nil || record.UsedAt != nil || now.After(record.ExpiresAt) {
		return ErrInvalidResetToken
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.tokens.Consume(ctx, record.ID, record.UserID, hash, now); err != nil {
		return fmt.Errorf("consume token: %w", err)
	}

	s.logger.Info("password reset confirmed", zap.String("user_id", record.UserID.String()))

	return nil
}
