package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// StockRepository provides data access methods for the stock table.
type StockRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewStockRepository creates a new StockRepository with the provided database connection.
func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx returns a copy of the repository that runs every statement inside tx.
func (r *StockRepository) WithTx(tx *sql.Tx) *StockRepository {
	return &StockRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *StockRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetStocks retrieves all registered stocks ordered by symbol.
func (r *StockRepository) GetStocks(ctx context.Context) ([]model.Stock, error) {
	return r.queryStocks(ctx, `SELECT symbol, name, market, classification FROM stock ORDER BY symbol`)
}

// GetHeldStocks retrieves the stocks referenced by at least one holding.
// These are the symbols a batch refresh needs data for.
func (r *StockRepository) GetHeldStocks(ctx context.Context) ([]model.Stock, error) {
	return r.queryStocks(ctx, `
		SELECT s.symbol, s.name, s.market, s.classification
		FROM stock s
		WHERE EXISTS (SELECT 1 FROM holding h WHERE h.symbol = s.symbol)
		ORDER BY s.symbol
	`)
}

func (r *StockRepository) queryStocks(ctx context.Context, query string, args ...any) ([]model.Stock, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock table: %w", err)
	}
	defer rows.Close()

	stocks := []model.Stock{}
	for rows.Next() {
		var s model.Stock
		if err := rows.Scan(&s.Symbol, &s.Name, &s.Market, &s.Classification); err != nil {
			return nil, fmt.Errorf("failed to scan stock table results: %w", err)
		}
		stocks = append(stocks, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock table: %w", err)
	}

	return stocks, nil
}

// GetStock retrieves one stock.
// Returns apperrors.ErrStockNotFound if the symbol is not registered.
func (r *StockRepository) GetStock(ctx context.Context, symbol string) (model.Stock, error) {
	var s model.Stock
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT symbol, name, market, classification FROM stock WHERE symbol = ?`, symbol,
	).Scan(&s.Symbol, &s.Name, &s.Market, &s.Classification)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Stock{}, apperrors.ErrStockNotFound
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("failed to query stock: %w", err)
	}
	return s, nil
}

// InsertStock registers a stock.
// Returns apperrors.ErrDuplicateEntry if the symbol is already registered.
func (r *StockRepository) InsertStock(ctx context.Context, s model.Stock) error {
	_, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO stock (symbol, name, market, classification) VALUES (?, ?, ?, ?)`,
		s.Symbol, s.Name, s.Market, s.Classification,
	)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to insert stock: %w", err)
	}
	return nil
}

// UpdateStock overwrites the name, market and classification of a stock.
func (r *StockRepository) UpdateStock(ctx context.Context, s model.Stock) error {
	res, err := r.getQuerier().ExecContext(ctx,
		`UPDATE stock SET name = ?, market = ?, classification = ? WHERE symbol = ?`,
		s.Name, s.Market, s.Classification, s.Symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return checkAffected(res, apperrors.ErrStockNotFound)
}

// DeleteStock removes a stock together with its stored prices and corporate actions.
// Returns apperrors.ErrStockInUse if holdings still reference it.
func (r *StockRepository) DeleteStock(ctx context.Context, symbol string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM stock WHERE symbol = ?`, symbol)
	if isForeignKeyViolation(err) {
		return apperrors.ErrStockInUse
	}
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}
	return checkAffected(res, apperrors.ErrStockNotFound)
}

// DeleteAll removes every stock. Holdings must be deleted first.
func (r *StockRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM stock`); err != nil {
		return fmt.Errorf("failed to clear stock table: %w", err)
	}
	return nil
}
