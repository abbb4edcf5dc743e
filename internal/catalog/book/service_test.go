// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package book

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangvh/libris/internal/platform/apperr"
	"github.com/dangvh/libris/internal/platform/dberr"
	"github.com/dangvh/libris/internal/platform/media"
)

// # Fakes

type fakeRepository struct {
	books      map[string]*Book
	failInsert bool
	failUpdate bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{books: map[string]*Book{}}
}

func (f *fakeRepository) ListBooks(_ context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	var matched []*Book
	for _, b := range f.books {
		if filter.Category != "" && !strings.EqualFold(filter.Category, b.Category) {
			continue
		}
		if filter.AdminEmail != "" && filter.AdminEmail != b.AdminEmail {
			continue
		}
		matched = append(matched, b)
	}
	return matched, len(matched), nil
}

func (f *fakeRepository) GetBook(_ context.Context, id string) (*Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepository) CreateBook(_ context.Context, b *Book) error {
	if f.failInsert {
		return apperr.Internal(assert.AnError)
	}
	stored := *b
	f.books[b.ID] = &stored
	return nil
}

func (f *fakeRepository) UpdateBook(_ context.Context, b *Book) error {
	if f.failUpdate {
		return apperr.Internal(assert.AnError)
	}
	if _, ok := f.books[b.ID]; !ok {
		return dberr.ErrNotFound
	}
	stored := *b
	f.books[b.ID] = &stored
	return nil
}

func (f *fakeRepository) DeleteBook(_ context.Context, id string) error {
	if _, ok := f.books[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

type fakeMediaStore struct {
	uploads     []string
	destroyed   []string
	failUploads bool
	failDestroy map[string]bool
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{failDestroy: map[string]bool{}}
}

func (f *fakeMediaStore) Upload(_ context.Context, input media.UploadInput) (string, error) {
	if f.failUploads {
		return "", apperr.UploadFailed(assert.AnError)
	}
	url := "https://media.libris.app/" + input.Folder + "/" + input.Filename
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeMediaStore) Destroy(_ context.Context, objectURL string) error {
	f.destroyed = append(f.destroyed, objectURL)
	if f.failDestroy[objectURL] {
		return assert.AnError
	}
	return nil
}

// # Fixtures

func validInput() Input {
	return Input{
		Title:       "Clean Architecture",
		Author:      "Robert C. Martin",
		Description: "A craftsman's guide to software structure.",
		Category:    "Engineering",
		AdminEmail:  "admin@libris.app",
	}
}

func coverPart() *media.UploadInput {
	return &media.UploadInput{Reader: strings.NewReader("img"), Size: 3, Filename: "cover.png", ContentType: "image/png"}
}

func pdfPart() *media.UploadInput {
	return &media.UploadInput{Reader: strings.NewReader("pdf"), Size: 3, Filename: "book.pdf", ContentType: "application/pdf"}
}

func newTestService(repository *fakeRepository, store *fakeMediaStore) *Service {
	return NewService(repository, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Tests

func TestService_CreateBook(t *testing.T) {
	t.Run("stores a normalized category", func(t *testing.T) {
		repository := newFakeRepository()
		service := newTestService(repository, newFakeMediaStore())

		created, err := service.CreateBook(context.Background(), validInput(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, "engineering", created.Category)
		assert.Len(t, repository.books, 1)
	})

	t.Run("any missing field rejects the whole request", func(t *testing.T) {
		fields := []func(*Input){
			func(i *Input) { i.Title = "" },
			func(i *Input) { i.Author = "" },
			func(i *Input) { i.Description = "" },
			func(i *Input) { i.Category = "" },
			func(i *Input) { i.AdminEmail = "" },
		}

		for _, blank := range fields {
			repository := newFakeRepository()
			store := newFakeMediaStore()
			service := newTestService(repository, store)

			input := validInput()
			blank(&input)

			_, err := service.CreateBook(context.Background(), input, coverPart(), pdfPart())

			var appError *apperr.AppError
			require.ErrorAs(t, err, &appError)
			assert.Equal(t, 400, appError.HTTPStatus)
			assert.Empty(t, repository.books, "nothing may persist on validation failure")
			assert.Empty(t, store.uploads, "nothing may upload on validation failure")
		}
	})

	t.Run("upload failure aborts before any persistence", func(t *testing.T) {
		repository := newFakeRepository()
		store := newFakeMediaStore()
		store.failUploads = true
		service := newTestService(repository, store)

		_, err := service.CreateBook(context.Background(), validInput(), coverPart(), pdfPart())

		require.Error(t, err)
		assert.Empty(t, repository.books)
	})

	t.Run("insert failure destroys the fresh uploads", func(t *testing.T) {
		repository := newFakeRepository()
		repository.failInsert = true
		store := newFakeMediaStore()
		service := newTestService(repository, store)

		_, err := service.CreateBook(context.Background(), validInput(), coverPart(), pdfPart())

		require.Error(t, err)
		assert.Len(t, store.uploads, 2)
		assert.ElementsMatch(t, store.uploads, store.destroyed)
	})

	t.Run("media URLs land on the record", func(t *testing.T) {
		repository := newFakeRepository()
		service := newTestService(repository, newFakeMediaStore())

		created, err := service.CreateBook(context.Background(), validInput(), coverPart(), pdfPart())

		require.NoError(t, err)
		require.NotNil(t, created.CoverImageURL)
		require.NotNil(t, created.PDFURL)
		assert.Contains(t, *created.CoverImageURL, "book_covers")
		assert.Contains(t, *created.PDFURL, "book_pdfs")
	})
}

func TestService_ListBooks(t *testing.T) {
	t.Run("category filter is case-insensitive", func(t *testing.T) {
		repository := newFakeRepository()
		service := newTestService(repository, newFakeMediaStore())

		_, err := service.CreateBook(context.Background(), validInput(), nil, nil)
		require.NoError(t, err)

		books, total, err := service.ListBooks(context.Background(), Filter{Category: "ENGINEERING"}, 20, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, books, 1)
	})
}

func TestService_UpdateBook(t *testing.T) {
	seed := func(t *testing.T) (*Service, *fakeRepository, *fakeMediaStore, string) {
		t.Helper()
		repository := newFakeRepository()
		store := newFakeMediaStore()
		service := newTestService(repository, store)
		created, err := service.CreateBook(context.Background(), validInput(), coverPart(), pdfPart())
		require.NoError(t, err)
		return service, repository, store, created.ID
	}

	t.Run("absent files keep stored URLs", func(t *testing.T) {
		service, _, store, id := seed(t)
		uploadsBefore := len(store.uploads)

		input := validInput()
		input.Title = "Clean Architecture (2nd printing)"
		updated, err := service.UpdateBook(context.Background(), id, input, nil, nil)

		require.NoError(t, err)
		require.NotNil(t, updated.CoverImageURL)
		require.NotNil(t, updated.PDFURL)
		assert.Len(t, store.uploads, uploadsBefore)
		assert.Empty(t, store.destroyed)
	})

	t.Run("replacement destroys the superseded object", func(t *testing.T) {
		service, _, store, id := seed(t)

		before, err := service.GetBook(context.Background(), id)
		require.NoError(t, err)
		oldCover := *before.CoverImageURL

		newCover := &media.UploadInput{Reader: strings.NewReader("img2"), Size: 4, Filename: "cover-v2.png", ContentType: "image/png"}
		updated, err := service.UpdateBook(context.Background(), id, validInput(), newCover, nil)

		require.NoError(t, err)
		assert.NotEqual(t, oldCover, *updated.CoverImageURL)
		assert.Contains(t, store.destroyed, oldCover)
		assert.NotContains(t, store.destroyed, *updated.PDFURL, "unreplaced pdf must survive")
	})

	t.Run("failed row update destroys replacements, keeps originals", func(t *testing.T) {
		service, repository, store, id := seed(t)
		repository.failUpdate = true

		newCover := &media.UploadInput{Reader: strings.NewReader("img2"), Size: 4, Filename: "cover-v2.png", ContentType: "image/png"}
		_, err := service.UpdateBook(context.Background(), id, validInput(), newCover, nil)

		require.Error(t, err)
		require.Len(t, store.destroyed, 1)
		assert.Contains(t, store.destroyed[0], "cover-v2.png")
		require.NotNil(t, repository.books[id].CoverImageURL)
		assert.Contains(t, *repository.books[id].CoverImageURL, "cover.png")
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		service, _, _, _ := seed(t)

		_, err := service.UpdateBook(context.Background(), "missing", validInput(), nil, nil)

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 404, appError.HTTPStatus)
	})
}

func TestService_DeleteBook(t *testing.T) {
	seed := func(t *testing.T) (*Service, *fakeRepository, *fakeMediaStore, *Book) {
		t.Helper()
		repository := newFakeRepository()
		store := newFakeMediaStore()
		service := newTestService(repository, store)
		created, err := service.CreateBook(context.Background(), validInput(), coverPart(), pdfPart())
		require.NoError(t, err)
		return service, repository, store, created
	}

	t.Run("destroys each media object exactly once", func(t *testing.T) {
		service, repository, store, created := seed(t)
		store.destroyed = nil

		report, err := service.DeleteBook(context.Background(), created.ID)

		require.NoError(t, err)
		assert.True(t, report.Deleted)
		assert.Empty(t, report.MediaFailures)
		assert.ElementsMatch(t, []string{*created.CoverImageURL, *created.PDFURL}, store.destroyed)
		assert.Empty(t, repository.books)
	})

	t.Run("destroy failure is reported but never blocks deletion", func(t *testing.T) {
		service, repository, store, created := seed(t)
		store.destroyed = nil
		store.failDestroy[*created.CoverImageURL] = true

		report, err := service.DeleteBook(context.Background(), created.ID)

		require.NoError(t, err)
		assert.True(t, report.Deleted)
		assert.Equal(t, []string{*created.CoverImageURL}, report.MediaFailures)
		assert.Len(t, store.destroyed, 2, "one attempt per object, no retries")
		assert.Empty(t, repository.books)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		service, _, store, _ := seed(t)
		store.destroyed = nil

		_, err := service.DeleteBook(context.Background(), "missing")

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 404, appError.HTTPStatus)
		assert.Empty(t, store.destroyed)
	})
}
