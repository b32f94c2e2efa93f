// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ContentArticleTable represents the 'content.article' table
type ContentArticleTable struct {
	Table     string
	ID        string
	Title     string
	Slug      string
	Subtitle  string
	Content   string
	ImageURL  string
	Status    string
	AuthorID  string
	CreatedAt string
	UpdatedAt string
}

// ContentArticle is the schema definition for content.article
var ContentArticle = ContentArticleTable{
	Table:     "content.article",
	ID:        "id",
	Title:     "title",
	Slug:      "slug",
	Subtitle:  "subtitle",
	Content:   "content",
	ImageURL:  "imageurl",
	Status:    "status",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ContentArticleTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Subtitle, t.Content, t.ImageURL,
		t.Status, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
