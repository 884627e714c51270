package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

func action(symbol, exDate, cash, source string) model.CorporateAction {
	return model.CorporateAction{
		ID:                            testutil.MakeID(),
		Symbol:                        symbol,
		ExDate:                        testutil.MustDate(exDate),
		CashDividendPerShare:          decimal.RequireFromString(cash),
		StockDividendRatioPerThousand: decimal.Zero,
		Source:                        source,
		FetchedAt:                     time.Now().UTC(),
	}
}

// TestCorporateActionRepository_UpsertActions tests the per-key write rules.
//
// WHY: Refreshes run repeatedly against the same history. Storing a fetch twice must leave
// one row per ex-date, and a fetched value must never replace a manual correction.
func TestCorporateActionRepository_UpsertActions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		first      model.CorporateAction
		second     model.CorporateAction
		wantStored int
		wantCash   string
		wantSource string
	}{
		{
			name:       "fetched overwrites fetched",
			first:      action("2330", "2023-06-15", "2.75", model.SourceYahoo),
			second:     action("2330", "2023-06-15", "3", model.SourceYahoo),
			wantStored: 1,
			wantCash:   "3",
			wantSource: model.SourceYahoo,
		},
		{
			name:       "fetched never overwrites manual",
			first:      action("2330", "2023-06-15", "2.8", model.SourceManual),
			second:     action("2330", "2023-06-15", "3", model.SourceFinMind),
			wantStored: 0,
			wantCash:   "2.8",
			wantSource: model.SourceManual,
		},
		{
			name:       "manual overwrites fetched",
			first:      action("2330", "2023-06-15", "3", model.SourceYahoo),
			second:     action("2330", "2023-06-15", "2.8", model.SourceManual),
			wantStored: 1,
			wantCash:   "2.8",
			wantSource: model.SourceManual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			testutil.NewStock().WithSymbol("2330").Build(t, db)
			repo := repository.NewCorporateActionRepository(db)

			if _, err := repo.UpsertActions(ctx, []model.CorporateAction{tt.first}); err != nil {
				t.Fatalf("first UpsertActions() returned unexpected error: %v", err)
			}
			stored, err := repo.UpsertActions(ctx, []model.CorporateAction{tt.second})
			if err != nil {
				t.Fatalf("second UpsertActions() returned unexpected error: %v", err)
			}
			if stored != tt.wantStored {
				t.Errorf("Expected %d rows written, got %d", tt.wantStored, stored)
			}

			actions, err := repo.GetActions(ctx, "2330")
			if err != nil {
				t.Fatalf("GetActions() returned unexpected error: %v", err)
			}
			if len(actions) != 1 {
				t.Fatalf("Expected 1 stored action, got %d", len(actions))
			}
			if actions[0].CashDividendPerShare.String() != tt.wantCash || actions[0].Source != tt.wantSource {
				t.Errorf("Expected %s from %s, got %s from %s", tt.wantCash, tt.wantSource, actions[0].CashDividendPerShare, actions[0].Source)
			}
			if actions[0].ID != tt.first.ID {
				t.Errorf("Expected the row to keep ID %s, got %s", tt.first.ID, actions[0].ID)
			}
		})
	}
}

// TestCorporateActionRepository_GetActionsForSymbols tests grouping and ordering.
func TestCorporateActionRepository_GetActionsForSymbols(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	testutil.NewStock().WithSymbol("2330").Build(t, db)
	testutil.NewStock().WithSymbol("0050").Build(t, db)
	repo := repository.NewCorporateActionRepository(db)

	_, err := repo.UpsertActions(ctx, []model.CorporateAction{
		action("2330", "2023-09-14", "3", model.SourceYahoo),
		action("2330", "2023-06-15", "2.75", model.SourceYahoo),
		action("0050", "2023-07-18", "1.9", model.SourceYahoo),
	})
	if err != nil {
		t.Fatalf("UpsertActions() returned unexpected error: %v", err)
	}

	grouped, err := repo.GetActionsForSymbols(ctx, []string{"2330"})
	if err != nil {
		t.Fatalf("GetActionsForSymbols() returned unexpected error: %v", err)
	}
	if _, ok := grouped["0050"]; ok {
		t.Errorf("Expected only requested symbols to be returned")
	}
	got := grouped["2330"]
	if len(got) != 2 || !got[0].ExDate.Before(got[1].ExDate) {
		t.Errorf("Expected two 2330 actions oldest first, got %+v", got)
	}

	empty, err := repo.GetActionsForSymbols(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected an empty map for no symbols, got %v, %v", empty, err)
	}
}
