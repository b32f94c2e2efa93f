// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package article manages the news articles written by approved authors.

An article belongs to the author whose session created it; only that author can
read it back from the panel, rewrite it or delete it. Published articles are also
listed publicly for the mobile client.

The body is a block document produced by the panel's editor. It is validated and
its inline markup sanitised before every write.
*/
package article

import (
	"encoding/json"
	"time"
)

// # Lifecycle

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// # Domain Entities

// Article is one news item.
type Article struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Slug     string          `json:"slug"`
	Subtitle string          `json:"subtitle"`
	Content  json.RawMessage `json:"content"`
	ImageURL string          `json:"imageUrl"`
	Status   Status          `json:"status"`

	// AuthorID is taken from the session that created the article and never changes.
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input is the editable part of an article, as submitted by the editor.
type Input struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Content  json.RawMessage `json:"content"`
	ImageURL string          `json:"imageUrl"`
	Status   Status          `json:"status"`
}

// # Constraints

const (
	MaxTitleLength    = 200
	MaxSubtitleLength = 300
)

// # Field Identifiers

const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldSubtitle = "subtitle"
	FieldContent  = "content"
	FieldImageURL = "imageUrl"
	FieldStatus   = "status"
)

// # User-facing Messages

const (
	MessageTitleRequired  = "Le titre est obligatoire."
	MessageContentEmpty   = "Le contenu ne peut pas être vide."
	MessageContentInvalid = "Le contenu n'est pas un document valide."
	MessageBlockUnknown   = "Type de bloc non pris en charge."
	MessageHeaderLevel    = "Les titres de section vont du niveau 2 au niveau 4."
	MessageListStyle      = "Une liste est ordonnée ou non ordonnée."
)
