// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/database/schema"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/dberr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool, timeout time.Duration) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool, timeout: timeout}
}

var accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

/*
Create persists a new credential and its pending profile in one transaction.

Parameters:
  - ctx: context.Context
  - account: *Account (Entity to persist)
  - initial: *profile.Profile

Returns:
  - error: apperr Conflict on a duplicate email, DataAccess otherwise
*/
func (repository *PostgresAccountRepository) Create(ctx context.Context, account *Account, initial *profile.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	insertAccount := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`,
		schema.UserAccount.Table, accountColumns)

	err := pgx.BeginFunc(ctx, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertAccount,
			account.ID,
			account.Email,
			account.PasswordHash,
			account.CreatedAt,
			account.UpdatedAt,
		); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, profile.InsertStatement(), profile.InsertArgs(initial)...)
		return err
	})

	return dberr.Wrap(err, "Account")
}

/*
FindByEmail retrieves an account by its case-folded email address.
*/
func (repository *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return repository.findOne(ctx, schema.UserAccount.Email, email)
}

/*
FindByID retrieves an account by its primary key.
*/
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	return repository.findOne(ctx, schema.UserAccount.ID, id)
}

func (repository *PostgresAccountRepository) findOne(ctx context.Context, column, value string) (*Account, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, accountColumns, schema.UserAccount.Table, column)

	account := &Account{}
	err := repository.pool.QueryRow(ctx, query, value).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	return account, nil
}
