package store

import (
	"context"
	"fmt"
	"time"

	"rewards-service/internal/models"
)

// CreatePurchase inserts a new purchase record
func (s *Store) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	query := `
		INSERT INTO purchases (business_id, purchase_amount, lng_quantity, points_earned, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, purchase_date`

	return s.db.GetContext(ctx, purchase, query,
		purchase.BusinessID, purchase.PurchaseAmount, purchase.LNGQuantity,
		purchase.PointsEarned, purchase.Status)
}

// CompletePurchase marks a purchase completed and credits the business
// totals in one transaction, so a purchase never settles without its
// points landing on the balance.
func (s *Store) CompletePurchase(ctx context.Context, purchaseID, businessID int64, points, amount float64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE purchases SET status = $1 WHERE id = $2",
		models.PurchaseStatusCompleted, purchaseID); err != nil {
		return fmt.Errorf("failed to complete purchase %d: %w", purchaseID, err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE businesses SET total_points = total_points + $1, total_spent = total_spent + $2 WHERE id = $3",
		points, amount, businessID); err != nil {
		return fmt.Errorf("failed to update business totals: %w", err)
	}

	return tx.Commit()
}

// GetPurchasesByBusinessID retrieves all purchases for a business, newest first
func (s *Store) GetPurchasesByBusinessID(ctx context.Context, businessID int64) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.SelectContext(ctx, &purchases,
		"SELECT * FROM purchases WHERE business_id = $1 ORDER BY purchase_date DESC", businessID)
	return purchases, err
}

// GetRecentPurchases retrieves the most recent purchases for a business
func (s *Store) GetRecentPurchases(ctx context.Context, businessID int64, limit int) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.SelectContext(ctx, &purchases,
		"SELECT * FROM purchases WHERE business_id = $1 ORDER BY purchase_date DESC LIMIT $2",
		businessID, limit)
	return purchases, err
}

// CountPurchases counts all purchases for a business
func (s *Store) CountPurchases(ctx context.Context, businessID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM purchases WHERE business_id = $1", businessID)
	return count, err
}

// SumLNGQuantity sums LNG tonnage across all purchases for a business
func (s *Store) SumLNGQuantity(ctx context.Context, businessID int64) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(lng_quantity), 0) FROM purchases WHERE business_id = $1", businessID)
	return total, err
}

// SumPointsEarnedSince sums points earned on purchases in the window
func (s *Store) SumPointsEarnedSince(ctx context.Context, businessID int64, since time.Time) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(points_earned), 0) FROM purchases WHERE business_id = $1 AND purchase_date >= $2",
		businessID, since)
	return total, err
}

// SumLNGQuantitySince sums LNG tonnage on purchases in the window
func (s *Store) SumLNGQuantitySince(ctx context.Context, businessID int64, since time.Time) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(lng_quantity), 0) FROM purchases WHERE business_id = $1 AND purchase_date >= $2",
		businessID, since)
	return total, err
}

// ApplyRedemption decrements the balance and records the redemption in
// one transaction. The conditional guard keeps total_points from ever
// going negative under concurrent redemptions; false means the balance
// was insufficient and nothing was written.
func (s *Store) ApplyRedemption(ctx context.Context, redemption *models.Redemption) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE businesses
		SET total_points = total_points - $1, total_redeemed = total_redeemed + $1
		WHERE id = $2 AND total_points >= $1`,
		redemption.PointsRedeemed, redemption.BusinessID)
	if err != nil {
		return false, fmt.Errorf("failed to redeem points: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	query := `
		INSERT INTO redemptions (business_id, points_redeemed, amount_credited, purchase_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, redemption_date`
	if err := tx.GetContext(ctx, redemption, query,
		redemption.BusinessID, redemption.PointsRedeemed, redemption.AmountCredited,
		redemption.PurchaseID, redemption.Status); err != nil {
		return false, fmt.Errorf("failed to create redemption: %w", err)
	}

	return true, tx.Commit()
}

// SumPointsRedeemedSince sums points redeemed in the window
func (s *Store) SumPointsRedeemedSince(ctx context.Context, businessID int64, since time.Time) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(points_redeemed), 0) FROM redemptions WHERE business_id = $1 AND redemption_date >= $2",
		businessID, since)
	return total, err
}

// CreateStatement inserts a new statement snapshot
func (s *Store) CreateStatement(ctx context.Context, statement *models.Statement) error {
	query := `
		INSERT INTO statements (business_id, period_start, period_end, points_earned, points_redeemed, co2_saved)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, generated_date`

	return s.db.GetContext(ctx, statement, query,
		statement.BusinessID, statement.PeriodStart, statement.PeriodEnd,
		statement.PointsEarned, statement.PointsRedeemed, statement.CO2Saved)
}

// GetStatementsByBusinessID retrieves all statements for a business, newest first
func (s *Store) GetStatementsByBusinessID(ctx context.Context, businessID int64) ([]models.Statement, error) {
	var statements []models.Statement
	err := s.db.SelectContext(ctx, &statements,
		"SELECT * FROM statements WHERE business_id = $1 ORDER BY generated_date DESC", businessID)
	return statements, err
}
