package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// CorporateActionRepository provides data access methods for the corporate_action table.
// The table holds one row per (symbol, ex_date).
type CorporateActionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCorporateActionRepository creates a new CorporateActionRepository with the provided database connection.
func NewCorporateActionRepository(db *sql.DB) *CorporateActionRepository {
	return &CorporateActionRepository{db: db}
}

// WithTx returns a copy of the repository that runs every statement inside tx.
func (r *CorporateActionRepository) WithTx(tx *sql.Tx) *CorporateActionRepository {
	return &CorporateActionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *CorporateActionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const corporateActionColumns = `id, symbol, ex_date, cash_dividend_per_share, stock_dividend_ratio_per_thousand, source, fetched_at`

// GetActions retrieves the stored events of one symbol, oldest first.
func (r *CorporateActionRepository) GetActions(ctx context.Context, symbol string) ([]model.CorporateAction, error) {
	grouped, err := r.GetActionsForSymbols(ctx, []string{symbol})
	if err != nil {
		return nil, err
	}
	if actions, ok := grouped[symbol]; ok {
		return actions, nil
	}
	return []model.CorporateAction{}, nil
}

// GetAllActions retrieves every stored event ordered by symbol and ex-date.
func (r *CorporateActionRepository) GetAllActions(ctx context.Context) ([]model.CorporateAction, error) {
	rows, err := r.getQuerier().QueryContext(ctx,
		`SELECT `+corporateActionColumns+` FROM corporate_action ORDER BY symbol, ex_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corporate_action table: %w", err)
	}
	defer rows.Close()

	actions := []model.CorporateAction{}
	for rows.Next() {
		a, err := scanCorporateAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating corporate_action table: %w", err)
	}
	return actions, nil
}

// GetActionsForSymbols retrieves the stored events of several symbols in one query.
// Returns a map of symbol -> events sorted by ex-date. Symbols without events are absent.
func (r *CorporateActionRepository) GetActionsForSymbols(ctx context.Context, symbols []string) (map[string][]model.CorporateAction, error) {
	result := make(map[string][]model.CorporateAction)
	if len(symbols) == 0 {
		return result, nil
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT ` + corporateActionColumns + `
		FROM corporate_action
		WHERE symbol IN (` + placeholders(len(symbols)) + `)
		ORDER BY symbol, ex_date
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, stringArgs(symbols)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query corporate_action table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanCorporateAction(rows)
		if err != nil {
			return nil, err
		}
		result[a.Symbol] = append(result[a.Symbol], a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating corporate_action table: %w", err)
	}

	return result, nil
}

// UpsertActions stores events keyed by (symbol, ex_date).
//
// A new key is inserted. An existing fetched row is overwritten with the new values, so
// storing the same fetch twice leaves the table unchanged. Rows entered manually are never
// overwritten by a fetched event; a manual event overwrites anything.
//
// Returns:
//   - int: the number of rows written (inserted or overwritten)
//   - error: apperrors.ErrStockNotFound if a symbol is not registered, or any database failure
func (r *CorporateActionRepository) UpsertActions(ctx context.Context, actions []model.CorporateAction) (int, error) {
	query := `
		INSERT INTO corporate_action (` + corporateActionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, ex_date) DO UPDATE SET
			cash_dividend_per_share = excluded.cash_dividend_per_share,
			stock_dividend_ratio_per_thousand = excluded.stock_dividend_ratio_per_thousand,
			source = excluded.source,
			fetched_at = excluded.fetched_at
		WHERE excluded.source = 'manual' OR corporate_action.source != 'manual'
	`

	stored := 0
	for _, a := range actions {
		res, err := r.getQuerier().ExecContext(ctx, query,
			a.ID, a.Symbol, formatDate(a.ExDate), a.CashDividendPerShare, a.StockDividendRatioPerThousand,
			a.Source, formatTimestamp(a.FetchedAt),
		)
		if isForeignKeyViolation(err) {
			return stored, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, a.Symbol)
		}
		if err != nil {
			return stored, fmt.Errorf("failed to upsert corporate action %s %s: %w", a.Symbol, formatDate(a.ExDate), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return stored, fmt.Errorf("failed to read affected rows: %w", err)
		}
		stored += int(n)
	}

	return stored, nil
}

// DeleteAll removes every stored event.
func (r *CorporateActionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM corporate_action`); err != nil {
		return fmt.Errorf("failed to clear corporate_action table: %w", err)
	}
	return nil
}

func scanCorporateAction(s rowScanner) (model.CorporateAction, error) {
	var a model.CorporateAction
	var exDate, fetchedAt string

	err := s.Scan(&a.ID, &a.Symbol, &exDate, &a.CashDividendPerShare, &a.StockDividendRatioPerThousand, &a.Source, &fetchedAt)
	if err != nil {
		return model.CorporateAction{}, fmt.Errorf("failed to scan corporate action: %w", err)
	}

	if a.ExDate, err = ParseTime(exDate); err != nil {
		return model.CorporateAction{}, fmt.Errorf("corporate action %s ex-date: %w", a.ID, err)
	}
	if a.FetchedAt, err = ParseTime(fetchedAt); err != nil {
		return model.CorporateAction{}, fmt.Errorf("corporate action %s fetched at: %w", a.ID, err)
	}

	return a, nil
}
