package models

import "time"

// Event types
const (
	EventTypeBusinessRegistered = "BUSINESS_REGISTERED"
	EventTypePurchaseRecorded   = "PURCHASE_RECORDED"
	EventTypePointsRedeemed     = "POINTS_REDEEMED"
	EventTypeStatementGenerated = "STATEMENT_GENERATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BusinessRegisteredEvent published when a business registers
type BusinessRegisteredEvent struct {
	BaseEvent
	BusinessID   int64  `json:"business_id"`
	BusinessName string `json:"business_name"`
	CardID       string `json:"card_id"`
}

// PurchaseRecordedEvent published when a purchase completes
type PurchaseRecordedEvent struct {
	BaseEvent
	BusinessID     int64   `json:"business_id"`
	PurchaseID     int64   `json:"purchase_id"`
	PurchaseAmount float64 `json:"purchase_amount"`
	LNGQuantity    float64 `json:"lng_quantity"`
	PointsEarned   float64 `json:"points_earned"`
}

// PointsRedeemedEvent published when points are converted to credit
type PointsRedeemedEvent struct {
	BaseEvent
	BusinessID      int64   `json:"business_id"`
	RedemptionID    int64   `json:"redemption_id"`
	PointsRedeemed  float64 `json:"points_redeemed"`
	AmountCredited  float64 `json:"amount_credited"`
	RemainingPoints float64 `json:"remaining_points"`
}

// StatementGeneratedEvent published when a statement snapshot is created
type StatementGeneratedEvent struct {
	BaseEvent
	BusinessID     int64     `json:"business_id"`
	StatementID    int64     `json:"statement_id"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	PointsEarned   float64   `json:"points_earned"`
	PointsRedeemed float64   `json:"points_redeemed"`
	CO2Saved       float64   `json:"co2_saved"`
}
