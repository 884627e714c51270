package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// PriceRepository provides data access methods for the stock_price table.
type PriceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// WithTx returns a copy of the repository that runs every statement inside tx.
func (r *PriceRepository) WithTx(tx *sql.Tx) *PriceRepository {
	return &PriceRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PriceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetPrices retrieves the price history of a symbol, newest first.
func (r *PriceRepository) GetPrices(ctx context.Context, symbol string) ([]model.StockPrice, error) {
	return r.queryPrices(ctx, `SELECT id, symbol, date, price FROM stock_price WHERE symbol = ? ORDER BY date DESC`, symbol)
}

// GetAllPrices retrieves every stored price ordered by symbol and date.
func (r *PriceRepository) GetAllPrices(ctx context.Context) ([]model.StockPrice, error) {
	return r.queryPrices(ctx, `SELECT id, symbol, date, price FROM stock_price ORDER BY symbol, date`)
}

// GetLatestPrices retrieves the most recent price of each given symbol.
// Returns a map of symbol -> price. Symbols without any stored price are absent.
func (r *PriceRepository) GetLatestPrices(ctx context.Context, symbols []string) (map[string]model.StockPrice, error) {
	result := make(map[string]model.StockPrice)
	if len(symbols) == 0 {
		return result, nil
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT sp.id, sp.symbol, sp.date, sp.price
		FROM stock_price sp
		INNER JOIN (
			SELECT symbol, MAX(date) AS latest_date
			FROM stock_price
			WHERE symbol IN (` + placeholders(len(symbols)) + `)
			GROUP BY symbol
		) latest ON sp.symbol = latest.symbol AND sp.date = latest.latest_date
	`

	prices, err := r.queryPrices(ctx, query, stringArgs(symbols)...)
	if err != nil {
		return nil, err
	}
	for _, p := range prices {
		result[p.Symbol] = p
	}
	return result, nil
}

// GetLatestPrice retrieves the most recent price of a symbol.
// Returns apperrors.ErrPriceNotFound if no price is stored.
func (r *PriceRepository) GetLatestPrice(ctx context.Context, symbol string) (model.StockPrice, error) {
	var p model.StockPrice
	var date string

	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, symbol, date, price FROM stock_price WHERE symbol = ? ORDER BY date DESC LIMIT 1`, symbol,
	).Scan(&p.ID, &p.Symbol, &date, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StockPrice{}, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return model.StockPrice{}, fmt.Errorf("failed to query stock_price: %w", err)
	}
	if p.Date, err = ParseTime(date); err != nil {
		return model.StockPrice{}, err
	}
	return p, nil
}

// UpsertPrice stores a closing price, replacing any price stored for the same symbol and date.
// The returned price carries the ID of the stored row, which is the existing one on conflict.
func (r *PriceRepository) UpsertPrice(ctx context.Context, p model.StockPrice) (model.StockPrice, error) {
	err := r.getQuerier().QueryRowContext(ctx, `
		INSERT INTO stock_price (id, symbol, date, price) VALUES (?, ?, ?, ?)
		ON CONFLICT (symbol, date) DO UPDATE SET price = excluded.price
		RETURNING id`,
		p.ID, p.Symbol, formatDate(p.Date), p.Price,
	).Scan(&p.ID)
	if isForeignKeyViolation(err) {
		return model.StockPrice{}, fmt.Errorf("%w: %s", apperrors.ErrStockNotFound, p.Symbol)
	}
	if err != nil {
		return model.StockPrice{}, fmt.Errorf("failed to upsert price for %s: %w", p.Symbol, err)
	}
	return p, nil
}

// DeleteAll removes every stored price.
func (r *PriceRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM stock_price`); err != nil {
		return fmt.Errorf("failed to clear stock_price table: %w", err)
	}
	return nil
}

func (r *PriceRepository) queryPrices(ctx context.Context, query string, args ...any) ([]model.StockPrice, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_price table: %w", err)
	}
	defer rows.Close()

	prices := []model.StockPrice{}
	for rows.Next() {
		var p model.StockPrice
		var date string
		if err := rows.Scan(&p.ID, &p.Symbol, &date, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan stock_price table results: %w", err)
		}
		if p.Date, err = ParseTime(date); err != nil {
			return nil, fmt.Errorf("price %s: %w", p.ID, err)
		}
		prices = append(prices, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_price table: %w", err)
	}

	return prices, nil
}
