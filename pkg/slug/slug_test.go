// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"accents", "Rentrée 2026 : le programme", "rentree-2026-le-programme"},
		{"apostrophe", "Semaine d'intégration", "semaine-d-integration"},
		{"punctuation_only", "!!!", ""},
		{"surrounding_space", "  Bibliothèque  ", "bibliotheque"},
		{"ligature_dropped", "Cœur", "c-ur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

func TestFrom_TruncatesOnWordBoundary(t *testing.T) {
	title := strings.Repeat("campus ", 20)

	got := slug.From(title)

	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
	assert.True(t, strings.HasSuffix(got, "campus"))
}
