package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterInitializesZeroTotals(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, nil)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		BusinessName: "Acme Logistics",
		Email:        "acme@example.com",
		Password:     "s3cret",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.BusinessID)

	business, err := store.GetBusinessByID(context.Background(), resp.BusinessID)
	require.NoError(t, err)
	assert.Zero(t, business.TotalPoints)
	assert.Zero(t, business.TotalSpent)
	assert.Zero(t, business.TotalRedeemed)
	assert.Zero(t, business.CO2Saved)
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, nil)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		BusinessName: "Acme Logistics",
		Email:        "acme@example.com",
		Password:     "s3cret",
	})
	require.NoError(t, err)

	business, err := store.GetBusinessByEmail(context.Background(), "acme@example.com")
	require.NoError(t, err)
	require.NotNil(t, business)
	assert.NotEqual(t, "s3cret", business.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(business.Password), []byte("s3cret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, nil)

	req := &RegisterRequest{
		BusinessName: "Acme Logistics",
		Email:        "acme@example.com",
		Password:     "s3cret",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, nil)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		BusinessName: "Acme Logistics",
		Email:        "acme@example.com",
		Password:     "s3cret",
	})
	require.NoError(t, err)

	business, err := svc.Login(context.Background(), "acme@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Acme Logistics", business.BusinessName)

	_, err = svc.Login(context.Background(), "acme@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the same error as a wrong password
	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewCardIDFormat(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)

	cardID := NewCardID(now)
	assert.Regexp(t, regexp.MustCompile(`^PGR-20240315093045-[0-9A-F]{4}$`), cardID)

	// Two issues within the same second must not collide
	assert.NotEqual(t, cardID, NewCardID(now))
}
