package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/garnizeh/chronosflow/pkg/models"
)

// CreateSchema inserts or updates a state schema by version.
func (r *SQLiteRepo) CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error) {
	ts := now()
	if _, err := r.conn.Exec(ctx, `INSERT INTO state_schemas (version, description, schema_json, created, updated) VALUES (?, ?, ?, ?, ?) ON CONFLICT(version) DO UPDATE SET description=excluded.description, schema_json=excluded.schema_json, updated=excluded.updated`, version, description, schemaJSON, ts, ts); err != nil {
		return 0, err
	}

	var id int64
	if err := r.conn.QueryRow(ctx, `SELECT id FROM state_schemas WHERE version = ?`, version).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLiteRepo) GetSchemaByVersion(ctx context.Context, version string) (*models.Schema, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, version, COALESCE(description, ''), schema_json, created, updated FROM state_schemas WHERE version = ?`, version)
	var s models.Schema
	if err := row.Scan(&s.ID, &s.Version, &s.Description, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepo) ListSchemas(ctx context.Context) ([]models.Schema, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, version, COALESCE(description, ''), schema_json, created, updated FROM state_schemas ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Schema
	for rows.Next() {
		var s models.Schema
		if err := rows.Scan(&s.ID, &s.Version, &s.Description, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
