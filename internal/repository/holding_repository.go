package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a copy of the repository that runs every statement inside tx.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const holdingColumns = `id, account_id, symbol, shares, cost_basis_per_share, purchase_date, note, created_at`

// GetHoldings retrieves holdings ordered by purchase date.
//
// Parameters:
//   - accountID: restricts the result to one account; empty returns every holding
//
// Returns an empty slice if no holdings match.
func (r *HoldingRepository) GetHoldings(ctx context.Context, accountID string) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding`
	var args []any

	if accountID != "" {
		query += ` WHERE account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY purchase_date, created_at, id`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// GetHolding retrieves one holding.
// Returns apperrors.ErrHoldingNotFound if no holding has the given ID.
func (r *HoldingRepository) GetHolding(ctx context.Context, id string) (model.Holding, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+holdingColumns+` FROM holding WHERE id = ?`, id)

	h, err := scanHolding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	return h, err
}

// InsertHolding records a purchase.
// Returns apperrors.ErrUnknownReference if the account or the symbol does not exist.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h model.Holding) error {
	_, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO holding (`+holdingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.AccountID, h.Symbol, h.Shares, h.CostBasisPerShare,
		formatDate(h.PurchaseDate), h.Note, formatTimestamp(h.CreatedAt),
	)
	if isForeignKeyViolation(err) {
		return apperrors.ErrUnknownReference
	}
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// UpdateHolding overwrites a holding.
// Returns apperrors.ErrHoldingNotFound if no holding has the given ID.
func (r *HoldingRepository) UpdateHolding(ctx context.Context, h model.Holding) error {
	res, err := r.getQuerier().ExecContext(ctx, `
		UPDATE holding
		SET account_id = ?, symbol = ?, shares = ?, cost_basis_per_share = ?, purchase_date = ?, note = ?
		WHERE id = ?`,
		h.AccountID, h.Symbol, h.Shares, h.CostBasisPerShare, formatDate(h.PurchaseDate), h.Note, h.ID,
	)
	if isForeignKeyViolation(err) {
		return apperrors.ErrUnknownReference
	}
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	return checkAffected(res, apperrors.ErrHoldingNotFound)
}

// DeleteHolding removes a holding and its adjustment snapshot.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, id string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM holding WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return checkAffected(res, apperrors.ErrHoldingNotFound)
}

// CountByAccount returns the number of holdings recorded under an account.
func (r *HoldingRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM holding WHERE account_id = ?`, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count holdings: %w", err)
	}
	return n, nil
}

// DeleteAll removes every holding.
func (r *HoldingRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM holding`); err != nil {
		return fmt.Errorf("failed to clear holding table: %w", err)
	}
	return nil
}

func scanHolding(s rowScanner) (model.Holding, error) {
	var h model.Holding
	var purchaseDate, createdAt string

	err := s.Scan(&h.ID, &h.AccountID, &h.Symbol, &h.Shares, &h.CostBasisPerShare, &purchaseDate, &h.Note, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Holding{}, err
		}
		return model.Holding{}, fmt.Errorf("failed to scan holding: %w", err)
	}

	if h.PurchaseDate, err = ParseTime(purchaseDate); err != nil {
		return model.Holding{}, fmt.Errorf("holding %s purchase date: %w", h.ID, err)
	}
	if h.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Holding{}, fmt.Errorf("holding %s created at: %w", h.ID, err)
	}

	return h, nil
}
