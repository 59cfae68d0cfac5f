package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/chronosflow/pkg/models"
)

// GetState returns the stored snapshot row of an account, or nil when none was saved.
func (r *SQLiteRepo) GetState(ctx context.Context, accountID string) (*models.StoredState, error) {
	row := r.conn.QueryRow(ctx, `SELECT account_id, state_json, schema_version, updated FROM app_states WHERE account_id = ?`, accountID)
	var s models.StoredState
	if err := row.Scan(&s.AccountID, &s.StateJSON, &s.SchemaVersion, &s.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// SaveState replaces the account's snapshot.
func (r *SQLiteRepo) SaveState(ctx context.Context, s *models.StoredState) error {
	if s == nil {
		return fmt.Errorf("state is nil")
	}

	s.Updated = now()
	_, err := r.conn.Exec(ctx, `INSERT INTO app_states (account_id, state_json, schema_version, updated) VALUES (?, ?, ?, ?) ON CONFLICT(account_id) DO UPDATE SET state_json=excluded.state_json, schema_version=excluded.schema_version, updated=excluded.updated`,
		s.AccountID, s.StateJSON, s.SchemaVersion, s.Updated)
	return err
}
