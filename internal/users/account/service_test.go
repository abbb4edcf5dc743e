// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package account

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangvh/libris/internal/platform/apperr"
	"github.com/dangvh/libris/internal/platform/media"
	"github.com/dangvh/libris/internal/users/auth"
)

type fakeAccountRepository struct {
	byEmail map[string]*auth.User
	failing bool
}

func (f *fakeAccountRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if user, ok := f.byEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	if f.failing {
		return apperr.Internal(assert.AnError)
	}
	stored := *user
	f.byEmail[user.Email] = &stored
	return nil
}

type fakeMediaStore struct {
	uploads   int
	destroyed []string
}

func (f *fakeMediaStore) Upload(_ context.Context, input media.UploadInput) (string, error) {
	f.uploads++
	return "https://media.libris.app/" + input.Folder + "/upload-" + input.Filename, nil
}

func (f *fakeMediaStore) Destroy(_ context.Context, objectURL string) error {
	f.destroyed = append(f.destroyed, objectURL)
	return nil
}

func harness(failing bool) (*Service, *fakeAccountRepository, *fakeMediaStore) {
	repository := &fakeAccountRepository{
		byEmail: map[string]*auth.User{
			"reader@example.com": {
				ID:           "user-1",
				Email:        "reader@example.com",
				Name:         "Reader",
				Country:      "Vietnam",
				FavoriteBook: "Dune",
				ProfilePhoto: "https://media.libris.app/profile_photos/old.png",
			},
		},
		failing: failing,
	}
	store := &fakeMediaStore{}
	return NewService(repository, store, slog.New(slog.NewTextHandler(io.Discard, nil))), repository, store
}

func TestService_UpdateProfile(t *testing.T) {
	t.Run("empty fields keep stored values", func(t *testing.T) {
		service, repository, _ := harness(false)

		user, err := service.UpdateProfile(context.Background(), UpdateProfileInput{
			Email: "reader@example.com",
			Name:  "Renamed",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, "Renamed", user.Name)
		assert.Equal(t, "Vietnam", user.Country)
		assert.Equal(t, "Dune", user.FavoriteBook)
		assert.Equal(t, "Renamed", repository.byEmail["reader@example.com"].Name)
	})

	t.Run("new photo replaces and destroys the old one", func(t *testing.T) {
		service, repository, store := harness(false)

		photo := &media.UploadInput{Reader: strings.NewReader("png"), Size: 3, Filename: "me.png", ContentType: "image/png"}
		user, err := service.UpdateProfile(context.Background(), UpdateProfileInput{Email: "reader@example.com"}, photo)

		require.NoError(t, err)
		assert.Contains(t, user.ProfilePhoto, "profile_photos")
		assert.Equal(t, 1, store.uploads)
		assert.Equal(t, []string{"https://media.libris.app/profile_photos/old.png"}, store.destroyed)
		assert.Equal(t, user.ProfilePhoto, repository.byEmail["reader@example.com"].ProfilePhoto)
	})

	t.Run("failed row update destroys the fresh upload, not the old photo", func(t *testing.T) {
		service, _, store := harness(true)

		photo := &media.UploadInput{Reader: strings.NewReader("png"), Size: 3, Filename: "me.png", ContentType: "image/png"}
		_, err := service.UpdateProfile(context.Background(), UpdateProfileInput{Email: "reader@example.com"}, photo)

		require.Error(t, err)
		require.Len(t, store.destroyed, 1)
		assert.Contains(t, store.destroyed[0], "upload-me.png")
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		service, _, store := harness(false)

		_, err := service.UpdateProfile(context.Background(), UpdateProfileInput{Email: "ghost@example.com"}, nil)

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 404, appError.HTTPStatus)
		assert.Zero(t, store.uploads)
	})
}

func TestService_GetProfile(t *testing.T) {
	t.Run("returns the stored profile", func(t *testing.T) {
		service, _, _ := harness(false)

		user, err := service.GetProfile(context.Background(), "reader@example.com")

		require.NoError(t, err)
		assert.Equal(t, "Reader", user.Name)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		service, _, _ := harness(false)

		_, err := service.GetProfile(context.Background(), "not-an-email")

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})
}
