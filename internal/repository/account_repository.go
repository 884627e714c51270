package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a copy of the repository that runs every statement inside tx.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AccountRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const accountColumns = `id, name, broker, fee_discount, created_at`

// GetAccounts retrieves all accounts ordered by name.
// Returns an empty slice if no accounts exist.
func (r *AccountRepository) GetAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT `+accountColumns+` FROM account ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}

	return accounts, nil
}

// GetAccount retrieves one account.
// Returns apperrors.ErrAccountNotFound if no account has the given ID.
func (r *AccountRepository) GetAccount(ctx context.Context, id string) (model.Account, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE id = ?`, id)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	return a, err
}

// InsertAccount creates an account.
func (r *AccountRepository) InsertAccount(ctx context.Context, a model.Account) error {
	_, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO account (`+accountColumns+`) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Broker, a.FeeDiscount, formatTimestamp(a.CreatedAt),
	)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// UpdateAccount overwrites the mutable fields of an account.
// Returns apperrors.ErrAccountNotFound if no account has the given ID.
func (r *AccountRepository) UpdateAccount(ctx context.Context, a model.Account) error {
	res, err := r.getQuerier().ExecContext(ctx,
		`UPDATE account SET name = ?, broker = ?, fee_discount = ? WHERE id = ?`,
		a.Name, a.Broker, a.FeeDiscount, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return checkAffected(res, apperrors.ErrAccountNotFound)
}

// DeleteAccount removes an account.
// Returns apperrors.ErrAccountInUse if holdings still reference it.
func (r *AccountRepository) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM account WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return apperrors.ErrAccountInUse
	}
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return checkAffected(res, apperrors.ErrAccountNotFound)
}

// DeleteAll removes every account. Holdings must be deleted first.
func (r *AccountRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM account`); err != nil {
		return fmt.Errorf("failed to clear account table: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(s rowScanner) (model.Account, error) {
	var a model.Account
	var createdAt string

	if err := s.Scan(&a.ID, &a.Name, &a.Broker, &a.FeeDiscount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, err
		}
		return model.Account{}, fmt.Errorf("failed to scan account: %w", err)
	}

	t, err := ParseTime(createdAt)
	if err != nil {
		return model.Account{}, fmt.Errorf("account %s: %w", a.ID, err)
	}
	a.CreatedAt = t

	return a, nil
}
