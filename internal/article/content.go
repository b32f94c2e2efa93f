// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/validate"
)

// # Block Document

// Document is the editor's output: an ordered list of typed blocks.
type Document struct {
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

// Block is one paragraph, header or list.
type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Supported block types.
const (
	BlockParagraph = "paragraph"
	BlockHeader    = "header"
	BlockList      = "list"
)

const (
	minHeaderLevel = 2
	maxHeaderLevel = 4
)

type paragraphData struct {
	Text string `json:"text"`
}

type headerData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type listData struct {
	Style string     `json:"style"`
	Meta  any        `json:"meta,omitempty"`
	Items []listItem `json:"items"`
}

// listItem accepts both the flat form (a string) and the nested form
// ({content, items}) of the list tool, and writes back the form it was given.
type listItem struct {
	Content string          `json:"content"`
	Meta    json.RawMessage `json:"meta,omitempty"`
	Items   []listItem      `json:"items,omitempty"`

	nested bool
}

func (item *listItem) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &item.Content)
	}

	type plain listItem
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*item = listItem(decoded)
	item.nested = true
	return nil
}

func (item listItem) MarshalJSON() ([]byte, error) {
	if !item.nested {
		return encode(item.Content)
	}
	type plain listItem
	return encode(plain(item))
}

// # Sanitising

// Sanitizer strips inline markup down to the formatting the editor produces.
//
// # Allow-list
//
//	b, i, strong, em, mark, code, br
//	a[href] with http, https or mailto targets
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the inline allow-list policy.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.NewPolicy()

	policy.AllowElements("b", "i", "strong", "em", "mark", "code", "br")

	policy.AllowAttrs("href").OnElements("a")
	policy.AllowURLSchemes("http", "https", "mailto")
	policy.AllowRelativeURLs(false)
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{policy: policy}
}

// Sanitize returns html restricted to the allow-list.
func (sanitizer *Sanitizer) Sanitize(html string) string {
	return sanitizer.policy.Sanitize(html)
}

/*
Normalize parses raw as a block document, rejects unsupported shapes and sanitises
the text of every block.

Returns:
  - json.RawMessage: The canonical, sanitised document
  - error: Validation error naming the content field
*/
func (sanitizer *Sanitizer) Normalize(raw json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, contentError(MessageContentEmpty)
	}

	var document Document
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, contentError(MessageContentInvalid)
	}
	if len(document.Blocks) == 0 {
		return nil, contentError(MessageContentEmpty)
	}

	for index := range document.Blocks {
		data, err := sanitizer.normalizeBlock(document.Blocks[index])
		if err != nil {
			return nil, err
		}
		document.Blocks[index].Data = data
	}

	canonical, err := encode(document)
	if err != nil {
		return nil, fmt.Errorf("article_content_encode_failed: %w", err)
	}
	return canonical, nil
}

func (sanitizer *Sanitizer) normalizeBlock(block Block) (json.RawMessage, error) {
	switch block.Type {
	case BlockParagraph:
		var data paragraphData
		if err := json.Unmarshal(block.Data, &data); err != nil {
			return nil, contentError(MessageContentInvalid)
		}
		data.Text = sanitizer.Sanitize(data.Text)
		return encode(data)

	case BlockHeader:
		var data headerData
		if err := json.Unmarshal(block.Data, &data); err != nil {
			return nil, contentError(MessageContentInvalid)
		}
		if data.Level < minHeaderLevel || data.Level > maxHeaderLevel {
			return nil, contentError(MessageHeaderLevel)
		}
		data.Text = sanitizer.Sanitize(data.Text)
		return encode(data)

	case BlockList:
		var data listData
		if err := json.Unmarshal(block.Data, &data); err != nil {
			return nil, contentError(MessageContentInvalid)
		}
		if data.Style != "ordered" && data.Style != "unordered" {
			return nil, contentError(MessageListStyle)
		}
		sanitizer.sanitizeItems(data.Items)
		return encode(data)
	}

	return nil, contentError(MessageBlockUnknown)
}

func (sanitizer *Sanitizer) sanitizeItems(items []listItem) {
	for index := range items {
		items[index].Content = sanitizer.Sanitize(items[index].Content)
		sanitizer.sanitizeItems(items[index].Items)
	}
}

// encode marshals v without escaping the markup that was just sanitised.
func encode(v any) (json.RawMessage, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

func contentError(message string) error {
	return validate.RequiredError(FieldContent, message)
}
