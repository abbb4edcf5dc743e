// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangvh/libris/internal/platform/apperr"
)

func TestValidator_Chaining(t *testing.T) {
	t.Run("all rules pass", func(t *testing.T) {
		v := &Validator{}
		err := v.
			Required("title", "Dune").
			Email("email", "admin@libris.app").
			MinLen("password", "long enough", 8).
			Err()

		assert.NoError(t, err)
	})

	t.Run("failures accumulate per field", func(t *testing.T) {
		v := &Validator{}
		err := v.
			Required("title", "  ").
			Email("email", "not-an-email").
			Err()

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 400, appError.HTTPStatus)
		require.Len(t, appError.Details, 2)
		assert.Equal(t, "title", appError.Details[0].Field)
		assert.Equal(t, "email", appError.Details[1].Field)
	})
}

func TestValidator_Rules(t *testing.T) {
	t.Run("required rejects whitespace", func(t *testing.T) {
		v := &Validator{}
		assert.Error(t, v.Required("f", " \t ").Err())
	})

	t.Run("uuid accepts canonical forms", func(t *testing.T) {
		v := &Validator{}
		assert.NoError(t, v.UUID("id", "0190b0a0-1111-7abc-9def-0123456789ab").Err())

		v2 := &Validator{}
		assert.Error(t, v2.UUID("id", "not-a-uuid").Err())
	})

	t.Run("oneOf is exact match", func(t *testing.T) {
		v := &Validator{}
		assert.NoError(t, v.OneOf("role", "admin", "admin", "user").Err())

		v2 := &Validator{}
		assert.Error(t, v2.OneOf("role", "Admin", "admin", "user").Err())
	})

	t.Run("custom fires on condition", func(t *testing.T) {
		v := &Validator{}
		assert.Error(t, v.Custom("size", true, "File too large").Err())

		v2 := &Validator{}
		assert.NoError(t, v2.Custom("size", false, "File too large").Err())
	})

	t.Run("minLen counts runes not bytes", func(t *testing.T) {
		v := &Validator{}
		assert.NoError(t, v.MinLen("name", "だんぐぶほ", 5).Err())
	})
}
