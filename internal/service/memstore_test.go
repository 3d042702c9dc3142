package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rewards-service/internal/models"
)

// memStore is an in-memory stand-in for the sqlx store, implementing
// both AuthStore and RewardsStore. The transactional writes can be
// made to fail via the err fields; a failing call leaves the store
// untouched, mirroring a rolled-back transaction.
type memStore struct {
	nextID      int64
	businesses  map[int64]*models.Business
	purchases   []models.Purchase
	redemptions []models.Redemption
	statements  []models.Statement

	completePurchaseErr error
	applyRedemptionErr  error
}

func newMemStore() *memStore {
	return &memStore{businesses: make(map[int64]*models.Business)}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateBusiness(_ context.Context, business *models.Business) error {
	business.ID = m.id()
	business.CreatedAt = time.Now()
	copied := *business
	m.businesses[business.ID] = &copied
	return nil
}

func (m *memStore) GetBusinessByEmail(_ context.Context, email string) (*models.Business, error) {
	for _, b := range m.businesses {
		if b.Email == email {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetBusinessByID(_ context.Context, id int64) (*models.Business, error) {
	b, ok := m.businesses[id]
	if !ok {
		return nil, fmt.Errorf("business not found: %d", id)
	}
	copied := *b
	return &copied, nil
}

func (m *memStore) UpdateCO2Saved(_ context.Context, businessID int64, co2 float64) error {
	m.businesses[businessID].CO2Saved = co2
	return nil
}

func (m *memStore) CreatePurchase(_ context.Context, purchase *models.Purchase) error {
	purchase.ID = m.id()
	if purchase.PurchaseDate.IsZero() {
		purchase.PurchaseDate = time.Now()
	}
	m.purchases = append(m.purchases, *purchase)
	return nil
}

func (m *memStore) CompletePurchase(_ context.Context, purchaseID, businessID int64, points, amount float64) error {
	if m.completePurchaseErr != nil {
		return m.completePurchaseErr
	}
	for i := range m.purchases {
		if m.purchases[i].ID == purchaseID {
			m.purchases[i].Status = models.PurchaseStatusCompleted
		}
	}
	b := m.businesses[businessID]
	b.TotalPoints += points
	b.TotalSpent += amount
	return nil
}

func (m *memStore) purchasesFor(businessID int64) []models.Purchase {
	var out []models.Purchase
	for _, p := range m.purchases {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PurchaseDate.After(out[j].PurchaseDate)
	})
	return out
}

func (m *memStore) GetPurchasesByBusinessID(_ context.Context, businessID int64) ([]models.Purchase, error) {
	return m.purchasesFor(businessID), nil
}

func (m *memStore) GetRecentPurchases(_ context.Context, businessID int64, limit int) ([]models.Purchase, error) {
	purchases := m.purchasesFor(businessID)
	if len(purchases) > limit {
		purchases = purchases[:limit]
	}
	return purchases, nil
}

func (m *memStore) CountPurchases(_ context.Context, businessID int64) (int, error) {
	return len(m.purchasesFor(businessID)), nil
}

func (m *memStore) SumLNGQuantity(_ context.Context, businessID int64) (float64, error) {
	var total float64
	for _, p := range m.purchasesFor(businessID) {
		total += p.LNGQuantity
	}
	return total, nil
}

func (m *memStore) SumPointsEarnedSince(_ context.Context, businessID int64, since time.Time) (float64, error) {
	var total float64
	for _, p := range m.purchasesFor(businessID) {
		if !p.PurchaseDate.Before(since) {
			total += p.PointsEarned
		}
	}
	return total, nil
}

func (m *memStore) SumLNGQuantitySince(_ context.Context, businessID int64, since time.Time) (float64, error) {
	var total float64
	for _, p := range m.purchasesFor(businessID) {
		if !p.PurchaseDate.Before(since) {
			total += p.LNGQuantity
		}
	}
	return total, nil
}

func (m *memStore) ApplyRedemption(_ context.Context, redemption *models.Redemption) (bool, error) {
	if m.applyRedemptionErr != nil {
		return false, m.applyRedemptionErr
	}
	b, ok := m.businesses[redemption.BusinessID]
	if !ok || b.TotalPoints < redemption.PointsRedeemed {
		return false, nil
	}
	b.TotalPoints -= redemption.PointsRedeemed
	b.TotalRedeemed += redemption.PointsRedeemed
	redemption.ID = m.id()
	if redemption.RedemptionDate.IsZero() {
		redemption.RedemptionDate = time.Now()
	}
	m.redemptions = append(m.redemptions, *redemption)
	return true, nil
}

func (m *memStore) SumPointsRedeemedSince(_ context.Context, businessID int64, since time.Time) (float64, error) {
	var total float64
	for _, r := range m.redemptions {
		if r.BusinessID == businessID && !r.RedemptionDate.Before(since) {
			total += r.PointsRedeemed
		}
	}
	return total, nil
}

func (m *memStore) CreateStatement(_ context.Context, statement *models.Statement) error {
	statement.ID = m.id()
	if statement.GeneratedDate.IsZero() {
		statement.GeneratedDate = time.Now()
	}
	m.statements = append(m.statements, *statement)
	return nil
}

func (m *memStore) GetStatementsByBusinessID(_ context.Context, businessID int64) ([]models.Statement, error) {
	var out []models.Statement
	for _, st := range m.statements {
		if st.BusinessID == businessID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GeneratedDate.After(out[j].GeneratedDate)
	})
	return out, nil
}
