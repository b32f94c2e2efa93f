// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/database/schema"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/dberr"
)

const resourceName = "Profile"

// PostgresRepository implements [Repository] on the users.profile table.
//
// Role changes are conditional writes: the expected role is part of the WHERE clause,
// so a precondition can never be bypassed by a stale admin view.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresRepository creates a profile repository; every call is bounded by timeout.
func NewPostgresRepository(pool *pgxpool.Pool, timeout time.Duration) *PostgresRepository {
	return &PostgresRepository{pool: pool, timeout: timeout}
}

var selectColumns = strings.Join(schema.UserProfile.Columns(), ", ")

// Get returns the profile keyed by uid.
func (repository *PostgresRepository) Get(ctx context.Context, uid string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.UserProfile.Table, schema.UserProfile.UID)

	profile, err := scanProfile(repository.pool.QueryRow(ctx, query, uid))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return profile, nil
}

// Create inserts a new profile row.
func (repository *PostgresRepository) Create(ctx context.Context, profile *Profile) error {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	_, err := repository.pool.Exec(ctx, InsertStatement(), InsertArgs(profile)...)
	return dberr.Wrap(err, resourceName)
}

// SetRole runs UPDATE ... WHERE role = from and reports whether a row changed.
func (repository *PostgresRepository) SetRole(ctx context.Context, uid string, from, to Role) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2`,
		schema.UserProfile.Table, schema.UserProfile.Role, schema.UserProfile.UID, schema.UserProfile.Role)

	tag, err := repository.pool.Exec(ctx, query, uid, string(from), string(to))
	if err != nil {
		return false, dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	return false, repository.ensureExists(ctx, uid)
}

// DeletePending runs DELETE ... WHERE role = 'pending' and reports whether a row was removed.
func (repository *PostgresRepository) DeletePending(ctx context.Context, uid string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UserProfile.Table, schema.UserProfile.UID, schema.UserProfile.Role)

	tag, err := repository.pool.Exec(ctx, query, uid, string(RolePending))
	if err != nil {
		return false, dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	return false, repository.ensureExists(ctx, uid)
}

// ListByRole returns the roster for one role, newest first.
func (repository *PostgresRepository) ListByRole(ctx context.Context, role Role) ([]*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		selectColumns, schema.UserProfile.Table, schema.UserProfile.Role, schema.UserProfile.CreatedAt)

	rows, err := repository.pool.Query(ctx, query, string(role))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	profiles := make([]*Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceName)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return profiles, nil
}

// ensureExists turns a zero-row conditional write into NotFound when the uid is unknown.
func (repository *PostgresRepository) ensureExists(ctx context.Context, uid string) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserProfile.Table, schema.UserProfile.UID)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, uid).Scan(&exists); err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if !exists {
		return dberr.Wrap(pgx.ErrNoRows, resourceName)
	}
	return nil
}

// # Shared SQL

// InsertStatement is the profile INSERT, shared with the sign-up transaction.
func InsertStatement() string {
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4)`,
		schema.UserProfile.Table, selectColumns)
}

// InsertArgs returns the arguments matching [InsertStatement].
func InsertArgs(profile *Profile) []any {
	return []any{profile.UID, profile.Email, string(profile.Role), profile.CreatedAt}
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		profile Profile
		role    string
	)
	if err := row.Scan(&profile.UID, &profile.Email, &role, &profile.CreatedAt); err != nil {
		return nil, err
	}
	profile.Role = Role(role)
	return &profile, nil
}
