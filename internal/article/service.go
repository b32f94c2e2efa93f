// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxutil"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/metrics"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/validate"
	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/slug"
	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/uuid"
)

// # Service Layer

// Service implements the authoring use cases. Callers pass the session's user id
// as authorID; it is never read from the submitted payload.
type Service struct {
	repository Repository
	sanitizer  *Sanitizer
	recorder   metrics.Recorder
}

// NewService constructs a new article [Service].
func NewService(repository Repository, sanitizer *Sanitizer, recorder metrics.Recorder) *Service {
	return &Service{repository: repository, sanitizer: sanitizer, recorder: recorder}
}

// # Authoring

/*
Create validates and stores a new article for authorID.

Description: Nothing is written unless every field passes validation. The title is
NFC-normalised before the slug is derived from it.

Returns:
  - *Article: The stored article with its store timestamps
  - error: Validation or DataAccess failures
*/
func (service *Service) Create(ctx context.Context, authorID string, input Input) (*Article, error) {
	article, err := service.prepare(input)
	if err != nil {
		return nil, err
	}

	article.ID = uuid.New()
	article.AuthorID = authorID

	if err := service.repository.Create(ctx, article); err != nil {
		return nil, err
	}

	service.recorder.RecordArticleWrite("create", string(article.Status))
	ctxutil.GetLogger(ctx).InfoContext(ctx, "article_created",
		slog.String("article_id", article.ID),
		slog.String("status", string(article.Status)),
	)

	return article, nil
}

/*
Rewrite replaces an owned article with input.

Description: Full-document rewrite. AuthorID and CreatedAt keep their stored values.

Returns:
  - error: NotFound when the article does not exist or belongs to someone else
*/
func (service *Service) Rewrite(ctx context.Context, authorID, id string, input Input) (*Article, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	article, err := service.prepare(input)
	if err != nil {
		return nil, err
	}

	article.ID = id
	article.AuthorID = authorID

	if err := service.repository.Rewrite(ctx, article); err != nil {
		return nil, err
	}

	service.recorder.RecordArticleWrite("rewrite", string(article.Status))
	ctxutil.GetLogger(ctx).InfoContext(ctx, "article_rewritten",
		slog.String("article_id", article.ID),
		slog.String("status", string(article.Status)),
	)

	return article, nil
}

// Delete removes an owned article.
func (service *Service) Delete(ctx context.Context, authorID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, id, authorID); err != nil {
		return err
	}

	service.recorder.RecordArticleWrite("delete", "")
	ctxutil.GetLogger(ctx).InfoContext(ctx, "article_deleted", slog.String("article_id", id))
	return nil
}

// # Lookups

// Get returns one of authorID's articles.
func (service *Service) Get(ctx context.Context, authorID, id string) (*Article, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return service.repository.FindOwned(ctx, id, authorID)
}

// ListMine returns authorID's articles, newest first.
func (service *Service) ListMine(ctx context.Context, authorID string) ([]*Article, error) {
	return service.repository.ListByAuthor(ctx, authorID)
}

// ListPublished returns every published article, newest first.
func (service *Service) ListPublished(ctx context.Context) ([]*Article, error) {
	return service.repository.ListPublished(ctx)
}

// # Validation

// prepare validates input and returns the article fields ready to store.
func (service *Service) prepare(input Input) (*Article, error) {
	title := norm.NFC.String(strings.TrimSpace(input.Title))
	subtitle := norm.NFC.String(strings.TrimSpace(input.Subtitle))
	imageURL := strings.TrimSpace(input.ImageURL)

	validator := &validate.Validator{}
	validator.Custom(FieldTitle, title == "", MessageTitleRequired).
		MaxLen(FieldTitle, title, MaxTitleLength).
		MaxLen(FieldSubtitle, subtitle, MaxSubtitleLength).
		OneOf(FieldStatus, string(input.Status), string(StatusDraft), string(StatusPublished)).
		URL(FieldImageURL, imageURL)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	content, err := service.sanitizer.Normalize(input.Content)
	if err != nil {
		return nil, err
	}

	return &Article{
		Title:    title,
		Slug:     slug.From(title),
		Subtitle: subtitle,
		Content:  content,
		ImageURL: imageURL,
		Status:   input.Status,
	}, nil
}

func validateID(id string) error {
	validator := &validate.Validator{}
	return validator.UUID(FieldID, id).Err()
}
