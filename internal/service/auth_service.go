package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rewards-service/internal/broker"
	"rewards-service/internal/models"
	"rewards-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailInUse is returned when registering a duplicate email
	ErrEmailInUse = errors.New("email already registered")
	// ErrInvalidCredentials represents login failure
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthStore is the subset of storage used by AuthService
type AuthStore interface {
	CreateBusiness(ctx context.Context, business *models.Business) error
	GetBusinessByEmail(ctx context.Context, email string) (*models.Business, error)
}

// AuthService handles registration and login
type AuthService struct {
	store          AuthStore
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store AuthStore, eventPublisher *broker.EventPublisher) *AuthService {
	return &AuthService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	BusinessName string  `json:"business_name" binding:"required"`
	Email        string  `json:"email" binding:"required"`
	Password     string  `json:"password" binding:"required"`
	Industry     *string `json:"industry,omitempty"`
	Location     *string `json:"location,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

// RegisterResponse carries the issued card identifier
type RegisterResponse struct {
	BusinessID int64  `json:"business_id"`
	CardID     string `json:"card_id"`
}

// Register creates a new business account with zero-initialized totals
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	existing, err := s.store.GetBusinessByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		util.RegistrationsFailedTotal.WithLabelValues("email_in_use").Inc()
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	business := &models.Business{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Password:     string(hash),
		CardID:       NewCardID(time.Now().UTC()),
		Industry:     req.Industry,
		Location:     req.Location,
		Phone:        req.Phone,
	}

	if err := s.store.CreateBusiness(ctx, business); err != nil {
		util.RegistrationsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create business: %w", err)
	}

	util.BusinessesRegisteredTotal.Inc()
	s.logger.Info("Business registered",
		zap.Int64("business_id", business.ID),
		zap.String("card_id", business.CardID))

	if s.eventPublisher != nil {
		event := &models.BusinessRegisteredEvent{
			BaseEvent:    newBaseEvent(models.EventTypeBusinessRegistered),
			BusinessID:   business.ID,
			BusinessName: business.BusinessName,
			CardID:       business.CardID,
		}
		if err := s.eventPublisher.PublishBusinessRegistered(ctx, event); err != nil {
			s.logger.Error("Failed to publish BusinessRegistered event", zap.Error(err))
		}
	}

	return &RegisterResponse{BusinessID: business.ID, CardID: business.CardID}, nil
}

// Login verifies credentials and returns the business on success.
// The same error covers unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Business, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	business, err := s.store.GetBusinessByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up business: %w", err)
	}
	if business == nil {
		util.LoginsFailedTotal.Inc()
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(business.Password), []byte(password)); err != nil {
		util.LoginsFailedTotal.Inc()
		return nil, ErrInvalidCredentials
	}

	util.LoginsTotal.Inc()
	s.logger.Info("Business logged in", zap.Int64("business_id", business.ID))
	return business, nil
}

// NewCardID builds a card identifier from the UTC registration time.
// The random suffix keeps two registrations within the same second from
// colliding while preserving the PGR-<timestamp> shape.
func NewCardID(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("PGR-%s-%s", now.Format("20060102150405"), suffix)
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
