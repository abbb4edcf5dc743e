// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults when absent", "", 1, 20},
		{"explicit values", "?page=3&limit=50", 3, 50},
		{"zero page clamps", "?page=0", 1, 20},
		{"negative limit clamps", "?limit=-5", 1, 20},
		{"excessive limit clamps", "?limit=9999", 1, 20},
		{"garbage falls back", "?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/books"+tt.query, nil)

			params := FromRequest(request)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Params{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, Params{Page: 0, Limit: 20}.Offset())
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 20, 41)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 41, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Zero(t, NewMeta(1, 0, 10).TotalPages)
	assert.Zero(t, NewMeta(1, 20, 0).TotalPages)
}
