package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

// TestPriceService_UpdatePrice tests fetching and storing the latest close of one symbol.
func TestPriceService_UpdatePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the quote and overwrites the same date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		stock := testutil.NewStock().Build(t, db)
		mockFeed := testutil.NewMockPriceFeed().WithQuote(stock.Symbol, "2024-06-28", "950")
		svc := testutil.NewTestPriceService(t, db, mockFeed)

		first, err := svc.UpdatePrice(ctx, stock.Symbol)
		if err != nil {
			t.Fatalf("UpdatePrice() returned unexpected error: %v", err)
		}

		mockFeed.WithQuote(stock.Symbol, "2024-06-28", "955")
		second, err := svc.UpdatePrice(ctx, stock.Symbol)
		if err != nil {
			t.Fatalf("second UpdatePrice() returned unexpected error: %v", err)
		}

		// WHY: an intraday re-run must correct the close, not add a second row for the day.
		testutil.AssertRowCount(t, db, "stock_price", 1)
		if second.ID != first.ID {
			t.Errorf("Expected the stored row to keep ID %s, got %s", first.ID, second.ID)
		}
		if !second.Price.Equal(dec("955")) {
			t.Errorf("Expected price 955, got %s", second.Price)
		}
	})

	t.Run("returns not found for unknown symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPriceService(t, db, testutil.NewMockPriceFeed())

		_, err := svc.UpdatePrice(ctx, "9999")
		if !errors.Is(err, apperrors.ErrStockNotFound) {
			t.Errorf("Expected ErrStockNotFound, got %v", err)
		}
	})

	t.Run("propagates no data", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		stock := testutil.NewStock().Build(t, db)
		mockFeed := testutil.NewMockPriceFeed().WithError(stock.Symbol, apperrors.ErrNoData)
		svc := testutil.NewTestPriceService(t, db, mockFeed)

		_, err := svc.UpdatePrice(ctx, stock.Symbol)
		if !errors.Is(err, apperrors.ErrNoData) {
			t.Errorf("Expected ErrNoData, got %v", err)
		}
	})
}

// TestPriceService_UpdateAllPrices tests the bulk update over held symbols.
func TestPriceService_UpdateAllPrices(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	account := testutil.NewAccount().Build(t, db)

	var held []string
	for i := 0; i < 6; i++ {
		stock := testutil.NewStock().Build(t, db)
		testutil.NewHolding(account.ID, stock.Symbol).Build(t, db)
		held = append(held, stock.Symbol)
	}
	testutil.NewStock().Build(t, db) // not held

	mockFeed := testutil.NewMockPriceFeed().WithError(held[2], apperrors.ErrFeedUnavailable)
	svc := testutil.NewTestPriceService(t, db, mockFeed)

	resp, err := svc.UpdateAllPrices(ctx)
	if err != nil {
		t.Fatalf("UpdateAllPrices() returned unexpected error: %v", err)
	}

	if mockFeed.Calls() != 6 {
		t.Errorf("Expected 6 feed calls, got %d", mockFeed.Calls())
	}
	if resp.TotalUpdated != 5 || resp.TotalErrors != 1 {
		t.Errorf("Expected 5 updated and 1 error, got %d and %d", resp.TotalUpdated, resp.TotalErrors)
	}
	for i := 1; i < len(resp.Updated); i++ {
		if resp.Updated[i-1].Symbol > resp.Updated[i].Symbol {
			t.Errorf("Expected updated symbols in order, got %s before %s", resp.Updated[i-1].Symbol, resp.Updated[i].Symbol)
		}
	}
	testutil.AssertRowCount(t, db, "stock_price", 5)
}
