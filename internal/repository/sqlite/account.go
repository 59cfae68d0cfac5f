package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/chronosflow/pkg/models"
	"github.com/garnizeh/chronosflow/pkg/repository"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const accountColumns = `id, email, name, role, available_roles, auth_provider, password_hash, updated`

func (r *SQLiteRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}

	roles, err := json.Marshal(a.AvailableRoles)
	if err != nil {
		return fmt.Errorf("encode available roles: %w", err)
	}

	a.Updated = now()
	_, err = r.conn.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.Name, string(a.Role), string(roles), string(a.AuthProvider), a.PasswordHash, a.Updated)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *SQLiteRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return r.scanAccount(r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.scanAccount(r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
}

func (r *SQLiteRepo) UpdateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}

	roles, err := json.Marshal(a.AvailableRoles)
	if err != nil {
		return fmt.Errorf("encode available roles: %w", err)
	}

	a.Updated = now()
	_, err = r.conn.Exec(ctx, `UPDATE accounts SET email = ?, name = ?, role = ?, available_roles = ?, auth_provider = ?, password_hash = ?, updated = ? WHERE id = ?`,
		a.Email, a.Name, string(a.Role), string(roles), string(a.AuthProvider), a.PasswordHash, a.Updated, a.ID)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrDuplicateEmail
	}
	return err
}

func (r *SQLiteRepo) scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	var role, provider, roles string
	var pw sql.NullString
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &role, &roles, &provider, &pw, &a.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	a.Role = models.Role(role)
	a.AuthProvider = models.AuthProvider(provider)
	if pw.Valid {
		a.PasswordHash = pw.String
	}
	if roles != "" {
		if err := json.Unmarshal([]byte(roles), &a.AvailableRoles); err != nil {
			r.logger.Warn("sqlite: bad available_roles, ignoring", "account_id", a.ID, "err", err)
			a.AvailableRoles = nil
		}
	}

	return &a, nil
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// primary code only when extended result codes are off
		return strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}
