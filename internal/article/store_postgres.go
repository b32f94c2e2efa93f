// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

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

const resourceName = "Article"

// PostgresRepository implements [Repository] on the content.article table.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresRepository creates an article repository; every call is bounded by timeout.
func NewPostgresRepository(pool *pgxpool.Pool, timeout time.Duration) *PostgresRepository {
	return &PostgresRepository{pool: pool, timeout: timeout}
}

var (
	table         = schema.ContentArticle
	selectColumns = strings.Join(table.Columns(), ", ")
)

// Create inserts the article and reads back the store timestamps.
func (repository *PostgresRepository) Create(ctx context.Context, article *Article) error {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s
	`,
		table.Table,
		table.ID, table.Title, table.Slug, table.Subtitle, table.Content, table.ImageURL, table.Status, table.AuthorID,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		article.ID, article.Title, article.Slug, article.Subtitle, article.Content,
		article.ImageURL, string(article.Status), article.AuthorID,
	).Scan(&article.CreatedAt, &article.UpdatedAt)

	return dberr.Wrap(err, resourceName)
}

// Rewrite updates the editable columns of the row matching both id and author.
func (repository *PostgresRepository) Rewrite(ctx context.Context, article *Article) error {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = now()
		WHERE %s = $1 AND %s = $2
		RETURNING %s, %s
	`,
		table.Table,
		table.Title, table.Slug, table.Subtitle, table.Content, table.ImageURL, table.Status, table.UpdatedAt,
		table.ID, table.AuthorID,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		article.ID, article.AuthorID,
		article.Title, article.Slug, article.Subtitle, article.Content, article.ImageURL, string(article.Status),
	).Scan(&article.CreatedAt, &article.UpdatedAt)

	return dberr.Wrap(err, resourceName)
}

// FindOwned returns the article matching both id and author.
func (repository *PostgresRepository) FindOwned(ctx context.Context, id, authorID string) (*Article, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		selectColumns, table.Table, table.ID, table.AuthorID)

	article, err := scanArticle(repository.pool.QueryRow(ctx, query, id, authorID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return article, nil
}

// ListByAuthor returns the author's articles ordered by creation date, newest first.
func (repository *PostgresRepository) ListByAuthor(ctx context.Context, authorID string) ([]*Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		selectColumns, table.Table, table.AuthorID, table.CreatedAt)

	return repository.list(ctx, query, authorID)
}

// ListPublished returns every published article, newest first.
func (repository *PostgresRepository) ListPublished(ctx context.Context) ([]*Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		selectColumns, table.Table, table.Status, table.CreatedAt)

	return repository.list(ctx, query, string(StatusPublished))
}

// Delete removes the row matching both id and author.
func (repository *PostgresRepository) Delete(ctx context.Context, id, authorID string) error {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		table.Table, table.ID, table.AuthorID)

	tag, err := repository.pool.Exec(ctx, query, id, authorID)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceName)
	}
	return nil
}

func (repository *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*Article, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	articles := make([]*Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceName)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return articles, nil
}

func scanArticle(row pgx.Row) (*Article, error) {
	var (
		article Article
		status  string
	)
	err := row.Scan(
		&article.ID, &article.Title, &article.Slug, &article.Subtitle, &article.Content,
		&article.ImageURL, &status, &article.AuthorID, &article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	article.Status = Status(status)
	return &article, nil
}
