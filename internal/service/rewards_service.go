package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"rewards-service/internal/broker"
	"rewards-service/internal/models"
	"rewards-service/internal/util"

	"go.uber.org/zap"
)

// Conversion factors fixed by the rewards program
const (
	// PointsRate is the share of purchase value earned as green points
	PointsRate = 0.02
	// CO2PerTonLNG is metric tons of CO2 avoided per metric ton of LNG
	CO2PerTonLNG = 2.75
	// StatementWindow is the trailing period covered by a statement
	StatementWindow = 30 * 24 * time.Hour

	recentPurchaseLimit = 5
	dateTimeFormat      = "2006-01-02 15:04"
	dateFormat          = "2006-01-02"
)

// ErrInsufficientPoints is returned when a redemption exceeds the balance
var ErrInsufficientPoints = errors.New("insufficient points")

// RewardsStore is the subset of storage used by RewardsService
type RewardsStore interface {
	GetBusinessByID(ctx context.Context, id int64) (*models.Business, error)
	UpdateCO2Saved(ctx context.Context, businessID int64, co2 float64) error

	CreatePurchase(ctx context.Context, purchase *models.Purchase) error
	CompletePurchase(ctx context.Context, purchaseID, businessID int64, points, amount float64) error
	GetPurchasesByBusinessID(ctx context.Context, businessID int64) ([]models.Purchase, error)
	GetRecentPurchases(ctx context.Context, businessID int64, limit int) ([]models.Purchase, error)
	CountPurchases(ctx context.Context, businessID int64) (int, error)
	SumLNGQuantity(ctx context.Context, businessID int64) (float64, error)
	SumPointsEarnedSince(ctx context.Context, businessID int64, since time.Time) (float64, error)
	SumLNGQuantitySince(ctx context.Context, businessID int64, since time.Time) (float64, error)

	ApplyRedemption(ctx context.Context, redemption *models.Redemption) (bool, error)
	SumPointsRedeemedSince(ctx context.Context, businessID int64, since time.Time) (float64, error)

	CreateStatement(ctx context.Context, statement *models.Statement) error
	GetStatementsByBusinessID(ctx context.Context, businessID int64) ([]models.Statement, error)
}

// RewardsService handles purchases, redemptions and statements
type RewardsService struct {
	store          RewardsStore
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewRewardsService creates a new rewards service
func NewRewardsService(store RewardsStore, eventPublisher *broker.EventPublisher) *RewardsService {
	return &RewardsService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// RecordPurchaseRequest represents a purchase to record. Pointer fields
// so presence is validated but zero and negative values pass through.
type RecordPurchaseRequest struct {
	PurchaseAmount *float64 `json:"purchase_amount" binding:"required"`
	LNGQuantity    *float64 `json:"lng_quantity" binding:"required"`
}

// RecordPurchaseResponse carries the earned points and new purchase ID
type RecordPurchaseResponse struct {
	PurchaseID   int64   `json:"purchase_id"`
	PointsEarned float64 `json:"points_earned"`
}

// RecordPurchase creates a purchase and settles it in the same request:
// the row is inserted pending, then flipped to completed and credited
// to the business totals in one transaction before the response is
// returned.
func (s *RewardsService) RecordPurchase(ctx context.Context, businessID int64, req *RecordPurchaseRequest) (*RecordPurchaseResponse, error) {
	ctx, span := util.StartSpan(ctx, "RewardsService.RecordPurchase")
	defer span.End()

	amount := *req.PurchaseAmount
	lngQuantity := *req.LNGQuantity
	pointsEarned := amount * PointsRate

	purchase := &models.Purchase{
		BusinessID:     businessID,
		PurchaseAmount: amount,
		LNGQuantity:    lngQuantity,
		PointsEarned:   pointsEarned,
		Status:         models.PurchaseStatusPending,
	}

	if err := s.store.CreatePurchase(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	if err := s.store.CompletePurchase(ctx, purchase.ID, businessID, pointsEarned, amount); err != nil {
		return nil, fmt.Errorf("failed to complete purchase: %w", err)
	}

	util.PurchasesRecordedTotal.Inc()
	util.PointsEarnedTotal.Add(pointsEarned)
	s.logger.Info("Purchase recorded",
		zap.Int64("business_id", businessID),
		zap.Int64("purchase_id", purchase.ID),
		zap.Float64("points_earned", pointsEarned))

	if s.eventPublisher != nil {
		event := &models.PurchaseRecordedEvent{
			BaseEvent:      newBaseEvent(models.EventTypePurchaseRecorded),
			BusinessID:     businessID,
			PurchaseID:     purchase.ID,
			PurchaseAmount: amount,
			LNGQuantity:    lngQuantity,
			PointsEarned:   pointsEarned,
		}
		if err := s.eventPublisher.PublishPurchaseRecorded(ctx, event); err != nil {
			s.logger.Error("Failed to publish PurchaseRecorded event", zap.Error(err))
		}
	}

	return &RecordPurchaseResponse{
		PurchaseID:   purchase.ID,
		PointsEarned: pointsEarned,
	}, nil
}

// PurchaseSummary is one purchase as listed to the client
type PurchaseSummary struct {
	ID           int64   `json:"id"`
	Amount       float64 `json:"amount"`
	LNGQuantity  float64 `json:"lng_quantity"`
	PointsEarned float64 `json:"points_earned"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
}

// ListPurchases returns all purchases for a business, newest first
func (s *RewardsService) ListPurchases(ctx context.Context, businessID int64) ([]PurchaseSummary, error) {
	purchases, err := s.store.GetPurchasesByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	summaries := make([]PurchaseSummary, 0, len(purchases))
	for _, p := range purchases {
		summaries = append(summaries, PurchaseSummary{
			ID:           p.ID,
			Amount:       p.PurchaseAmount,
			LNGQuantity:  p.LNGQuantity,
			PointsEarned: p.PointsEarned,
			Date:         p.PurchaseDate.Format(dateTimeFormat),
			Status:       p.Status,
		})
	}
	return summaries, nil
}

// RedeemPointsRequest represents a redemption request
type RedeemPointsRequest struct {
	Points *float64 `json:"points" binding:"required"`
}

// RedeemPointsResponse carries the credit and remaining balance
type RedeemPointsResponse struct {
	AmountCredited  float64 `json:"amount_credited"`
	RemainingPoints float64 `json:"remaining_points"`
}

// RedeemPoints converts points to credit at 1:1. The balance decrement
// and the redemption record are one transactional store call, with a
// conditional guard so the balance never goes negative under concurrent
// redemptions. Redeeming the exact balance is allowed.
func (s *RewardsService) RedeemPoints(ctx context.Context, businessID int64, req *RedeemPointsRequest) (*RedeemPointsResponse, error) {
	ctx, span := util.StartSpan(ctx, "RewardsService.RedeemPoints")
	defer span.End()

	points := *req.Points
	amountCredited := points

	redemption := &models.Redemption{
		BusinessID:     businessID,
		PointsRedeemed: points,
		AmountCredited: amountCredited,
		Status:         models.RedemptionStatusApplied,
	}
	ok, err := s.store.ApplyRedemption(ctx, redemption)
	if err != nil {
		return nil, fmt.Errorf("failed to redeem points: %w", err)
	}
	if !ok {
		util.RedemptionsRejectedTotal.Inc()
		return nil, ErrInsufficientPoints
	}

	business, err := s.store.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business: %w", err)
	}

	util.RedemptionsTotal.Inc()
	util.PointsRedeemedTotal.Add(points)
	s.logger.Info("Points redeemed",
		zap.Int64("business_id", businessID),
		zap.Float64("points", points),
		zap.Float64("remaining", business.TotalPoints))

	if s.eventPublisher != nil {
		event := &models.PointsRedeemedEvent{
			BaseEvent:       newBaseEvent(models.EventTypePointsRedeemed),
			BusinessID:      businessID,
			RedemptionID:    redemption.ID,
			PointsRedeemed:  points,
			AmountCredited:  amountCredited,
			RemainingPoints: business.TotalPoints,
		}
		if err := s.eventPublisher.PublishPointsRedeemed(ctx, event); err != nil {
			s.logger.Error("Failed to publish PointsRedeemed event", zap.Error(err))
		}
	}

	return &RedeemPointsResponse{
		AmountCredited:  amountCredited,
		RemainingPoints: business.TotalPoints,
	}, nil
}

// PointsSummary is the totals snapshot for a business
type PointsSummary struct {
	TotalPoints   float64 `json:"total_points"`
	TotalSpent    float64 `json:"total_spent"`
	TotalRedeemed float64 `json:"total_redeemed"`
	CO2Saved      float64 `json:"co2_saved"`
	CardID        string  `json:"card_id"`
}

// GetPointsSummary returns the stored totals without recomputation;
// co2_saved reflects whatever the last dashboard view persisted.
func (s *RewardsService) GetPointsSummary(ctx context.Context, businessID int64) (*PointsSummary, error) {
	business, err := s.store.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	return &PointsSummary{
		TotalPoints:   business.TotalPoints,
		TotalSpent:    business.TotalSpent,
		TotalRedeemed: business.TotalRedeemed,
		CO2Saved:      business.CO2Saved,
		CardID:        business.CardID,
	}, nil
}

// DashboardData aggregates the dashboard view for a business
type DashboardData struct {
	Business        *models.Business
	RecentPurchases []models.Purchase
	TotalPurchases  int
}

// GetDashboard loads the dashboard aggregate. CO2 saved is recomputed
// from the full purchase set and persisted back as a side effect of the
// view, matching the stored-totals contract.
func (s *RewardsService) GetDashboard(ctx context.Context, businessID int64) (*DashboardData, error) {
	ctx, span := util.StartSpan(ctx, "RewardsService.GetDashboard")
	defer span.End()

	business, err := s.store.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	recent, err := s.store.GetRecentPurchases(ctx, businessID, recentPurchaseLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent purchases: %w", err)
	}

	count, err := s.store.CountPurchases(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to count purchases: %w", err)
	}

	totalLNG, err := s.store.SumLNGQuantity(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum LNG quantity: %w", err)
	}

	co2Saved := totalLNG * CO2PerTonLNG
	if err := s.store.UpdateCO2Saved(ctx, businessID, co2Saved); err != nil {
		return nil, fmt.Errorf("failed to persist co2 total: %w", err)
	}
	business.CO2Saved = co2Saved

	return &DashboardData{
		Business:        business,
		RecentPurchases: recent,
		TotalPurchases:  count,
	}, nil
}

// StatementSummary is one statement as returned to the client
type StatementSummary struct {
	ID             int64   `json:"id"`
	Period         string  `json:"period,omitempty"`
	PeriodStart    string  `json:"period_start,omitempty"`
	PeriodEnd      string  `json:"period_end,omitempty"`
	PointsEarned   float64 `json:"points_earned"`
	PointsRedeemed float64 `json:"points_redeemed"`
	CO2Saved       float64 `json:"co2_saved"`
	GeneratedDate  string  `json:"generated_date"`
}

// GenerateStatement aggregates the trailing 30-day window and persists
// an immutable snapshot. The stored CO2 value is the raw product; only
// the returned summary is rounded to two decimals.
func (s *RewardsService) GenerateStatement(ctx context.Context, businessID int64) (*StatementSummary, error) {
	ctx, span := util.StartSpan(ctx, "RewardsService.GenerateStatement")
	defer span.End()

	periodEnd := time.Now().UTC()
	periodStart := periodEnd.Add(-StatementWindow)

	pointsEarned, err := s.store.SumPointsEarnedSince(ctx, businessID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to sum points earned: %w", err)
	}

	pointsRedeemed, err := s.store.SumPointsRedeemedSince(ctx, businessID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to sum points redeemed: %w", err)
	}

	lngQuantity, err := s.store.SumLNGQuantitySince(ctx, businessID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to sum LNG quantity: %w", err)
	}

	co2Saved := lngQuantity * CO2PerTonLNG

	statement := &models.Statement{
		BusinessID:     businessID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		PointsEarned:   pointsEarned,
		PointsRedeemed: pointsRedeemed,
		CO2Saved:       co2Saved,
	}
	if err := s.store.CreateStatement(ctx, statement); err != nil {
		return nil, fmt.Errorf("failed to create statement: %w", err)
	}

	util.StatementsGeneratedTotal.Inc()
	s.logger.Info("Statement generated",
		zap.Int64("business_id", businessID),
		zap.Int64("statement_id", statement.ID))

	if s.eventPublisher != nil {
		event := &models.StatementGeneratedEvent{
			BaseEvent:      newBaseEvent(models.EventTypeStatementGenerated),
			BusinessID:     businessID,
			StatementID:    statement.ID,
			PeriodStart:    periodStart,
			PeriodEnd:      periodEnd,
			PointsEarned:   pointsEarned,
			PointsRedeemed: pointsRedeemed,
			CO2Saved:       co2Saved,
		}
		if err := s.eventPublisher.PublishStatementGenerated(ctx, event); err != nil {
			s.logger.Error("Failed to publish StatementGenerated event", zap.Error(err))
		}
	}

	return &StatementSummary{
		ID:             statement.ID,
		Period:         fmt.Sprintf("%s to %s", periodStart.Format(dateFormat), periodEnd.Format(dateFormat)),
		PointsEarned:   pointsEarned,
		PointsRedeemed: pointsRedeemed,
		CO2Saved:       round2(co2Saved),
		GeneratedDate:  statement.GeneratedDate.Format(dateTimeFormat),
	}, nil
}

// ListStatements returns all statements for a business, newest first
func (s *RewardsService) ListStatements(ctx context.Context, businessID int64) ([]StatementSummary, error) {
	statements, err := s.store.GetStatementsByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}

	summaries := make([]StatementSummary, 0, len(statements))
	for _, st := range statements {
		summaries = append(summaries, StatementSummary{
			ID:             st.ID,
			PeriodStart:    st.PeriodStart.Format(dateFormat),
			PeriodEnd:      st.PeriodEnd.Format(dateFormat),
			PointsEarned:   st.PointsEarned,
			PointsRedeemed: st.PointsRedeemed,
			CO2Saved:       round2(st.CO2Saved),
			GeneratedDate:  st.GeneratedDate.Format(dateTimeFormat),
		})
	}
	return summaries, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
