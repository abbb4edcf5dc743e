// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Science Fiction", "science-fiction"},
		{"accents stripped", "Crónica de una muerte anunciada", "cronica-de-una-muerte-anunciada"},
		{"symbols become hyphens", "C++ & Go: a comparison!", "c-go-a-comparison"},
		{"hyphens collapse and trim", "--already--slugged--", "already-slugged"},
		{"digits survive", "Catch-22", "catch-22"},
		{"nothing usable", "???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, From(tt.input))
		})
	}
}
