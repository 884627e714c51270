package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

// TestPriceRepository_GetLatestPrices tests that only the newest close of each symbol is returned.
func TestPriceRepository_GetLatestPrices(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	a := testutil.NewStock().Build(t, db)
	b := testutil.NewStock().Build(t, db)
	unpriced := testutil.NewStock().Build(t, db)

	testutil.NewPrice(a.Symbol).WithDate(testutil.MustDate("2024-06-27")).WithPrice("10").Build(t, db)
	testutil.NewPrice(a.Symbol).WithDate(testutil.MustDate("2024-06-28")).WithPrice("11").Build(t, db)
	testutil.NewPrice(b.Symbol).WithDate(testutil.MustDate("2024-05-02")).WithPrice("50").Build(t, db)

	repo := repository.NewPriceRepository(db)
	latest, err := repo.GetLatestPrices(ctx, []string{a.Symbol, b.Symbol, unpriced.Symbol})
	if err != nil {
		t.Fatalf("GetLatestPrices() returned unexpected error: %v", err)
	}

	if len(latest) != 2 {
		t.Fatalf("Expected 2 symbols with prices, got %d", len(latest))
	}
	if latest[a.Symbol].Price.String() != "11" {
		t.Errorf("Expected latest %s close 11, got %s", a.Symbol, latest[a.Symbol].Price)
	}
	if _, ok := latest[unpriced.Symbol]; ok {
		t.Errorf("Expected %s to be absent", unpriced.Symbol)
	}

	if _, err := repo.GetLatestPrice(ctx, unpriced.Symbol); !errors.Is(err, apperrors.ErrPriceNotFound) {
		t.Errorf("Expected ErrPriceNotFound, got %v", err)
	}
}
