// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	t.Run("key keeps folder, slug and extension", func(t *testing.T) {
		key := ObjectKey("book_covers", "My Cover Image.PNG")

		assert.True(t, strings.HasPrefix(key, "book_covers/"))
		assert.True(t, strings.HasSuffix(key, "-my-cover-image.png"))
	})

	t.Run("unsluggable name falls back", func(t *testing.T) {
		key := ObjectKey("book_pdfs", "???.pdf")

		assert.Contains(t, key, "-file.pdf")
	})

	t.Run("keys are unique per call", func(t *testing.T) {
		assert.NotEqual(t, ObjectKey("f", "a.png"), ObjectKey("f", "a.png"))
	})
}

func TestKeyFromURL(t *testing.T) {
	t.Run("derives the trailing two segments", func(t *testing.T) {
		key, err := KeyFromURL("https://media.libris.app/book_covers/abc-cover.png")

		require.NoError(t, err)
		assert.Equal(t, "book_covers/abc-cover.png", key)
	})

	t.Run("survives a base path in front", func(t *testing.T) {
		key, err := KeyFromURL("https://cdn.example.com/libris-media/book_pdfs/abc-book.pdf")

		require.NoError(t, err)
		assert.Equal(t, "book_pdfs/abc-book.pdf", key)
	})

	t.Run("rejects a URL without a folder segment", func(t *testing.T) {
		_, err := KeyFromURL("https://media.libris.app/orphan.png")

		assert.Error(t, err)
	})
}

func TestKeyRoundTrip(t *testing.T) {
	key := ObjectKey("profile_photos", "me.jpg")

	derived, err := KeyFromURL("https://media.libris.app/" + key)

	require.NoError(t, err)
	assert.Equal(t, key, derived)
}
