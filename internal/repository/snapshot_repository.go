package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the adjustment_snapshot table.
// The table is a derived cache: it is only ever replaced as a whole.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a copy of the repository that runs every statement inside tx.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SnapshotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetSnapshots retrieves every stored snapshot ordered by holding ID.
func (r *SnapshotRepository) GetSnapshots(ctx context.Context) ([]model.AdjustmentSnapshot, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT holding_id, final_shares, final_cost_basis_per_share, total_cash, events_applied, warnings, calculated_at
		FROM adjustment_snapshot
		ORDER BY holding_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustment_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.AdjustmentSnapshot{}
	for rows.Next() {
		var s model.AdjustmentSnapshot
		var eventsJSON, warningsJSON, calculatedAt string

		err := rows.Scan(&s.HoldingID, &s.FinalShares, &s.FinalCostBasisPerShare, &s.TotalCashDistributionReceived,
			&eventsJSON, &warningsJSON, &calculatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjustment_snapshot table results: %w", err)
		}
		if err := json.Unmarshal([]byte(eventsJSON), &s.EventsApplied); err != nil {
			return nil, fmt.Errorf("snapshot %s events: %w", s.HoldingID, err)
		}
		if err := json.Unmarshal([]byte(warningsJSON), &s.Warnings); err != nil {
			return nil, fmt.Errorf("snapshot %s warnings: %w", s.HoldingID, err)
		}
		if s.CalculatedAt, err = ParseTime(calculatedAt); err != nil {
			return nil, fmt.Errorf("snapshot %s calculated at: %w", s.HoldingID, err)
		}
		snapshots = append(snapshots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adjustment_snapshot table: %w", err)
	}

	return snapshots, nil
}

// ReplaceAll deletes every snapshot and inserts the given ones.
// Call it on a repository bound to a transaction so readers never see a partial snapshot.
func (r *SnapshotRepository) ReplaceAll(ctx context.Context, snapshots []model.AdjustmentSnapshot) error {
	q := r.getQuerier()

	if _, err := q.ExecContext(ctx, `DELETE FROM adjustment_snapshot`); err != nil {
		return fmt.Errorf("failed to clear adjustment_snapshot table: %w", err)
	}

	for _, s := range snapshots {
		eventsJSON, err := json.Marshal(s.EventsApplied)
		if err != nil {
			return fmt.Errorf("failed to encode events for %s: %w", s.HoldingID, err)
		}
		warningsJSON, err := json.Marshal(s.Warnings)
		if err != nil {
			return fmt.Errorf("failed to encode warnings for %s: %w", s.HoldingID, err)
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO adjustment_snapshot
				(holding_id, final_shares, final_cost_basis_per_share, total_cash, events_applied, warnings, calculated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.HoldingID, s.FinalShares, s.FinalCostBasisPerShare, s.TotalCashDistributionReceived,
			string(eventsJSON), string(warningsJSON), formatTimestamp(s.CalculatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot for %s: %w", s.HoldingID, err)
		}
	}

	return nil
}
