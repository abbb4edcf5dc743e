// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package library

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangvh/libris/internal/catalog/book"
	"github.com/dangvh/libris/internal/platform/apperr"
	"github.com/dangvh/libris/internal/platform/dberr"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	users     map[string]string // email -> user id
	books     map[string]*book.Book
	favorites map[string][]string // user id -> book ids
	downloads map[string][]string // user id -> book ids (appends)
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:     map[string]string{},
		books:     map[string]*book.Book{},
		favorites: map[string][]string{},
		downloads: map[string][]string{},
	}
}

func (f *fakeRepository) ResolveUserID(_ context.Context, email string) (string, error) {
	id, ok := f.users[email]
	if !ok {
		return "", dberr.ErrNotFound
	}
	return id, nil
}

func (f *fakeRepository) BookExists(_ context.Context, bookID string) (bool, error) {
	_, ok := f.books[bookID]
	return ok, nil
}

func (f *fakeRepository) ListFavorites(_ context.Context, userID string) ([]*book.Book, error) {
	var books []*book.Book
	for _, id := range f.favorites[userID] {
		books = append(books, f.books[id])
	}
	return books, nil
}

func (f *fakeRepository) AddFavorite(_ context.Context, userID, bookID string) (bool, error) {
	for _, id := range f.favorites[userID] {
		if id == bookID {
			return false, nil
		}
	}
	f.favorites[userID] = append(f.favorites[userID], bookID)
	return true, nil
}

func (f *fakeRepository) ListDownloads(_ context.Context, userID string) ([]*DownloadEntry, error) {
	var entries []*DownloadEntry
	for _, id := range f.downloads[userID] {
		entries = append(entries, &DownloadEntry{Book: f.books[id], DownloadedAt: time.Now()})
	}
	return entries, nil
}

func (f *fakeRepository) AddDownload(_ context.Context, userID, bookID string) error {
	f.downloads[userID] = append(f.downloads[userID], bookID)
	return nil
}

func (f *fakeRepository) HasDownloaded(_ context.Context, userID, bookID string) (bool, error) {
	for _, id := range f.downloads[userID] {
		if id == bookID {
			return true, nil
		}
	}
	return false, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededRepository() *fakeRepository {
	repository := newFakeRepository()
	repository.users["reader@example.com"] = "user-1"
	repository.books["book-1"] = &book.Book{ID: "book-1", Title: "The Go Programming Language"}
	repository.books["book-2"] = &book.Book{ID: "book-2", Title: "Designing Data-Intensive Applications"}
	return repository
}

func TestService_GetFavorites(t *testing.T) {
	t.Run("empty shelf returns empty slice, not error", func(t *testing.T) {
		service := NewService(seededRepository(), testLogger(), false)

		favorites, err := service.GetFavorites(context.Background(), "reader@example.com")

		require.NoError(t, err)
		assert.NotNil(t, favorites)
		assert.Empty(t, favorites)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		service := NewService(seededRepository(), testLogger(), false)

		_, err := service.GetFavorites(context.Background(), "ghost@example.com")

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 404, appError.HTTPStatus)
	})

	t.Run("invalid email rejected before lookup", func(t *testing.T) {
		service := NewService(seededRepository(), testLogger(), false)

		_, err := service.GetFavorites(context.Background(), "not-an-email")

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})
}

func TestService_AddFavorite(t *testing.T) {
	input := Input{Email: "reader@example.com", BookID: "book-1"}

	t.Run("first add writes a row", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), false)

		result, err := service.AddFavorite(context.Background(), input)

		require.NoError(t, err)
		assert.True(t, result.Added)
		assert.Len(t, repository.favorites["user-1"], 1)
	})

	t.Run("re-add is a success no-op", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), false)

		_, err := service.AddFavorite(context.Background(), input)
		require.NoError(t, err)

		result, err := service.AddFavorite(context.Background(), input)

		require.NoError(t, err)
		assert.False(t, result.Added)
		assert.Len(t, repository.favorites["user-1"], 1)
	})

	t.Run("unknown book mutates nothing", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), false)

		_, err := service.AddFavorite(context.Background(), Input{Email: "reader@example.com", BookID: "missing"})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 404, appError.HTTPStatus)
		assert.Empty(t, repository.favorites["user-1"])
	})

	t.Run("unknown user mutates nothing", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), false)

		_, err := service.AddFavorite(context.Background(), Input{Email: "ghost@example.com", BookID: "book-1"})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 404, appError.HTTPStatus)
		assert.Empty(t, repository.favorites)
	})
}

func TestService_RecordDownload(t *testing.T) {
	input := Input{Email: "reader@example.com", BookID: "book-1"}

	t.Run("appends unconditionally by default", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), false)

		require.NoError(t, service.RecordDownload(context.Background(), input))
		require.NoError(t, service.RecordDownload(context.Background(), input))

		assert.Len(t, repository.downloads["user-1"], 2)
	})

	t.Run("dedup policy suppresses repeats", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), true)

		require.NoError(t, service.RecordDownload(context.Background(), input))
		require.NoError(t, service.RecordDownload(context.Background(), input))

		assert.Len(t, repository.downloads["user-1"], 1)
	})

	t.Run("dedup still records distinct books", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), true)

		require.NoError(t, service.RecordDownload(context.Background(), input))
		require.NoError(t, service.RecordDownload(context.Background(), Input{Email: "reader@example.com", BookID: "book-2"}))

		assert.Len(t, repository.downloads["user-1"], 2)
	})

	t.Run("unknown book mutates nothing", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), false)

		err := service.RecordDownload(context.Background(), Input{Email: "reader@example.com", BookID: "missing"})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 404, appError.HTTPStatus)
		assert.Empty(t, repository.downloads)
	})
}

func TestService_GetDownloads(t *testing.T) {
	t.Run("returns recorded history", func(t *testing.T) {
		repository := seededRepository()
		service := NewService(repository, testLogger(), false)

		require.NoError(t, service.RecordDownload(context.Background(), Input{Email: "reader@example.com", BookID: "book-1"}))

		entries, err := service.GetDownloads(context.Background(), "reader@example.com")

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "book-1", entries[0].Book.ID)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		service := NewService(seededRepository(), testLogger(), false)

		_, err := service.GetDownloads(context.Background(), "ghost@example.com")

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 404, appError.HTTPStatus)
	})
}
