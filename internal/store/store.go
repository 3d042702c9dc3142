package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"rewards-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// EnsureSchema applies the embedded schema (idempotent)
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// CreateBusiness inserts a new business with zero-initialized totals
func (s *Store) CreateBusiness(ctx context.Context, business *models.Business) error {
	query := `
		INSERT INTO businesses (business_name, email, password, card_id, industry, location, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, total_points, total_spent, total_redeemed, co2_saved, created_at`

	return s.db.GetContext(ctx, business, query,
		business.BusinessName, business.Email, business.Password, business.CardID,
		business.Industry, business.Location, business.Phone)
}

// GetBusinessByID retrieves a business by ID
func (s *Store) GetBusinessByID(ctx context.Context, id int64) (*models.Business, error) {
	var business models.Business
	err := s.db.GetContext(ctx, &business, "SELECT * FROM businesses WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("business not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// GetBusinessByEmail retrieves a business by exact email, nil if absent
func (s *Store) GetBusinessByEmail(ctx context.Context, email string) (*models.Business, error) {
	var business models.Business
	err := s.db.GetContext(ctx, &business, "SELECT * FROM businesses WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// UpdateCO2Saved persists the recomputed CO2 total
func (s *Store) UpdateCO2Saved(ctx context.Context, businessID int64, co2 float64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE businesses SET co2_saved = $1 WHERE id = $2", co2, businessID)
	return err
}

// DeleteBusiness removes a business and its dependents in one transaction.
// Dependents go first so the delete does not lean on the FK cascade alone.
func (s *Store) DeleteBusiness(ctx context.Context, businessID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM statements WHERE business_id = $1",
		"DELETE FROM redemptions WHERE business_id = $1",
		"DELETE FROM purchases WHERE business_id = $1",
		"DELETE FROM businesses WHERE id = $1",
	} {
		if _, err := tx.ExecContext(ctx, q, businessID); err != nil {
			return fmt.Errorf("failed to delete business %d: %w", businessID, err)
		}
	}

	return tx.Commit()
}
