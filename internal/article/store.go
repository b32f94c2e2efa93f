// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import "context"

// # Article Data Access

// Repository defines the data access contract for articles.
//
// Every method that reads or changes a single article is scoped to its author: an
// article owned by someone else is reported as not found.
type Repository interface {

	/*
		Create persists a new article.

		Returns:
		  - error: DataAccess on store failures
	*/
	Create(ctx context.Context, article *Article) error

	/*
		Rewrite replaces the editable fields of an owned article.

		AuthorID and CreatedAt are never written. UpdatedAt is refreshed from the store.

		Returns:
		  - error: apperr NotFound if no article with that id belongs to the author
	*/
	Rewrite(ctx context.Context, article *Article) error

	/*
		FindOwned returns one article of authorID.
	*/
	FindOwned(ctx context.Context, id, authorID string) (*Article, error)

	/*
		ListByAuthor returns every article of authorID, newest first.
	*/
	ListByAuthor(ctx context.Context, authorID string) ([]*Article, error)

	/*
		Delete removes an owned article.

		Returns:
		  - error: apperr NotFound if no article with that id belongs to the author
	*/
	Delete(ctx context.Context, id, authorID string) error

	/*
		ListPublished returns the published articles of every author, newest first.
	*/
	ListPublished(ctx context.Context) ([]*Article, error)
}
