package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/backend/internal/model"
)

type resetFixture struct {
	svc    *PasswordResetService
	users  *fakeUserStore
	tokens *fakeResetStore
	sender *fakeEmailSender
	clock  *fixedClock
	userID uuid.UUID
}

func newResetFixture(t *testing.T, devMode bool) *resetFixture {
	t.Helper()

	clock := newFixedClock()
	users := newFakeUserStore()
	tokens := newFakeResetStore(users)
	sender := &fakeEmailSender{}

	f := &resetFixture{
		svc:    NewPasswordResetService(users, tokens, fakeHasher{}, sender, 20*time.Minute, devMode, clock, testLogger()),
		users:  users,
		tokens: tokens,
		sender: sender,
		clock:  clock,
		userID: uuid.New(),
	}

	require.NoError(t, users.Create(context.Background(), &model.User{
		ID:           f.userID,
		Email:        "user@example.com",
		PasswordHash: "hash:old-pass",
		Role:         model.RoleTeacher,
		Name:         "Alex",
		IsActive:     true,
	}))

	return f
}

func TestResetRequestUnknownEmail(t *testing.T) {
	f := newResetFixture(t, true)

	// Unknown addresses succeed silently: account existence never leaks.
	token, err := f.svc.Request(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, f.sender.to)
	assert.Empty(t, f.tokens.tokens)
}

func TestResetRequestSendsToken(t *testing.T) {
	f := newResetFixture(t, true)

	token, err := f.svc.Request(context.Background(), "User@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Len(t, f.sender.to, 1)
	assert.Equal(t, "user@example.com", f.sender.to[0])
	assert.True(t, strings.Contains(f.sender.bodies[0], token))

	// The raw token is never stored, only its hash.
	for _, record := range f.tokens.tokens {
		assert.NotEqual(t, token, record.TokenHash)
		assert.Equal(t, f.clock.now.Add(20*time.Minute), record.ExpiresAt)
	}
}

func TestResetRequestHidesTokenInProduction(t *testing.T) {
	f := newResetFixture(t, false)

	token, err := f.svc.Request(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Len(t, f.tokens.tokens, 1)
}

func TestResetRequestEmailFailureIsBestEffort(t *testing.T) {
	f := newResetFixture(t, true)
	f.sender.failAll = true

	token, err := f.svc.Request(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Len(t, f.tokens.tokens, 1)
}

func TestResetConfirm(t *testing.T) {
	f := newResetFixture(t, true)
	ctx := context.Background()

	token, err := f.svc.Request(ctx, "user@example.com")
	require.NoError(t, err)

	require.NoError(t, f.svc.Confirm(ctx, token, "new-password"))

	user := f.users.users[f.userID]
	assert.Equal(t, "hash:new-password", user.PasswordHash)

	// Single use.
	err = f.svc.Confirm(ctx, token, "another-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetConfirmInvalidatesSiblings(t *testing.T) {
	f := newResetFixture(t, true)
	ctx := context.Background()

	first, err := f.svc.Request(ctx, "user@example.com")
	require.NoError(t, err)
	second, err := f.svc.Request(ctx, "user@example.com")
	require.NoError(t, err)

	require.NoError(t, f.svc.Confirm(ctx, second, "new-password"))

	err = f.svc.Confirm(ctx, first, "sneaky-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetConfirmExpiredToken(t *testing.T) {
	f := newResetFixture(t, true)
	ctx := context.Background()

	token, err := f.svc.Request(ctx, "user@example.com")
	require.NoError(t, err)

	f.clock.Advance(21 * time.Minute)

	err = f.svc.Confirm(ctx, token, "new-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetConfirmBadInputs(t *testing.T) {
	f := newResetFixture(t, true)
	ctx := context.Background()

	err := f.svc.Confirm(ctx, "no-such-token", "new-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	token, err := f.svc.Request(ctx, "user@example.com")
	require.NoError(t, err)

	err = f.svc.Confirm(ctx, token, "short")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
