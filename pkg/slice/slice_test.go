// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, slice.Map([]string{"a", "b"}, strings.ToUpper))
}

func TestFilter(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	assert.Equal(t, []int{2, 4}, slice.Filter([]int{1, 2, 3, 4}, even))
}

func TestEmptyResults_EncodeAsArrays(t *testing.T) {
	mapped, err := json.Marshal(slice.Map([]int(nil), func(n int) int { return n }))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(mapped))

	filtered, err := json.Marshal(slice.Filter([]int{1}, func(int) bool { return false }))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(filtered))
}
