package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// GetValues returns the raw JSON value of each requested key that is stored.
// Missing keys are absent from the result.
func (d *DB) GetValues(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	query := `SELECT value FROM settings WHERE key = ?`
	for _, key := range keys {
		var value string
		err := d.db.QueryRowContext(ctx, query, key).Scan(&value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get setting %q: %w", key, err)
		}
		result[key] = json.RawMessage(value)
	}

	return result, nil
}

// SetValues upserts every key in values inside one transaction.
// Keys not named in values are left untouched.
func (d *DB) SetValues(ctx context.Context, values map[string]json.RawMessage) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settings transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	query := `
	INSERT INTO settings (key, value)
	VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = CURRENT_TIMESTAMP
	`

	for key, value := range values {
		if !json.Valid(value) {
			return fmt.Errorf("invalid JSON for setting %q", key)
		}
		if _, err := tx.ExecContext(ctx, query, key, string(value)); err != nil {
			return fmt.Errorf("failed to set setting %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}
