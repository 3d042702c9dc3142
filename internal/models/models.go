package models

import "time"

// Business represents a registered business account and its running totals
type Business struct {
	ID            int64     `db:"id" json:"id"`
	BusinessName  string    `db:"business_name" json:"business_name"`
	Email         string    `db:"email" json:"email"`
	Password      string    `db:"password" json:"-"`
	CardID        string    `db:"card_id" json:"card_id"`
	Industry      *string   `db:"industry" json:"industry,omitempty"`
	Location      *string   `db:"location" json:"location,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	TotalPoints   float64   `db:"total_points" json:"total_points"`
	TotalSpent    float64   `db:"total_spent" json:"total_spent"`
	TotalRedeemed float64   `db:"total_redeemed" json:"total_redeemed"`
	CO2Saved      float64   `db:"co2_saved" json:"co2_saved"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Purchase represents one LNG fuel-buying event
type Purchase struct {
	ID             int64     `db:"id" json:"id"`
	BusinessID     int64     `db:"business_id" json:"business_id"`
	PurchaseAmount float64   `db:"purchase_amount" json:"purchase_amount"`
	LNGQuantity    float64   `db:"lng_quantity" json:"lng_quantity"`
	PointsEarned   float64   `db:"points_earned" json:"points_earned"`
	PurchaseDate   time.Time `db:"purchase_date" json:"purchase_date"`
	Status         string    `db:"status" json:"status"`
}

// Redemption represents one points-to-credit conversion
type Redemption struct {
	ID             int64     `db:"id" json:"id"`
	BusinessID     int64     `db:"business_id" json:"business_id"`
	PointsRedeemed float64   `db:"points_redeemed" json:"points_redeemed"`
	AmountCredited float64   `db:"amount_credited" json:"amount_credited"`
	PurchaseID     *int64    `db:"purchase_id" json:"purchase_id,omitempty"`
	RedemptionDate time.Time `db:"redemption_date" json:"redemption_date"`
	Status         string    `db:"status" json:"status"`
}

// Statement is an immutable trailing-window activity snapshot
type Statement struct {
	ID             int64     `db:"id" json:"id"`
	BusinessID     int64     `db:"business_id" json:"business_id"`
	PeriodStart    time.Time `db:"period_start" json:"period_start"`
	PeriodEnd      time.Time `db:"period_end" json:"period_end"`
	PointsEarned   float64   `db:"points_earned" json:"points_earned"`
	PointsRedeemed float64   `db:"points_redeemed" json:"points_redeemed"`
	CO2Saved       float64   `db:"co2_saved" json:"co2_saved"`
	GeneratedDate  time.Time `db:"generated_date" json:"generated_date"`
}

// Purchase statuses
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
)

// Redemption statuses
const (
	RedemptionStatusApplied = "applied"
)
