// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dangvh/libris/internal/platform/constants"
	"github.com/dangvh/libris/internal/platform/media"
	"github.com/dangvh/libris/internal/platform/validate"
	"github.com/dangvh/libris/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for user profiles.
type Service struct {
	accountRepository AccountRepository
	mediaStore        media.Store
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, mediaStore media.Store, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		mediaStore:        mediaStore,
		logger:            logger.With(slog.String("component", "account_service")),
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, email string) (*auth.User, error) {
	validator := &validate.Validator{}
	if err := validator.Required(FieldEmail, email).Email(FieldEmail, email).Err(); err != nil {
		return nil, err
	}

	return service.accountRepository.FindByEmail(context, email)
}

// UpdateProfileInput defines the mutable subset of user profile fields.
//
// Empty strings mean "leave the stored value untouched"; the update merges
// rather than overwrites.
type UpdateProfileInput struct {
	Email        string
	Name         string
	Country      string
	FavoriteBook string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, merges provided fields, uploads
a replacement photo when one is attached, and synchronizes the change to
persistent storage. A superseded photo object is destroyed best-effort after
the row update succeeds.

Parameters:
  - context: context.Context
  - input: UpdateProfileInput
  - photo: *media.UploadInput (optional)

Returns:
  - *auth.User: The updated user profile
  - error: Not found, upload, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, input UpdateProfileInput, photo *media.UploadInput) (*auth.User, error) {
	validator := &validate.Validator{}
	if err := validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email).Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Country != "" {
		user.Country = input.Country
	}
	if input.FavoriteBook != "" {
		user.FavoriteBook = input.FavoriteBook
	}

	previousPhoto := ""
	if photo != nil {
		photo.Folder = constants.FolderProfilePhotos
		photoURL, err := service.mediaStore.Upload(context, *photo)
		if err != nil {
			return nil, err
		}
		previousPhoto = user.ProfilePhoto
		user.ProfilePhoto = photoURL
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		// The row kept its old photo; drop the orphaned upload.
		if photo != nil {
			service.destroyQuietly(context, user.ProfilePhoto)
		}
		return nil, err
	}

	if previousPhoto != "" {
		service.destroyQuietly(context, previousPhoto)
	}

	return user, nil
}

// destroyQuietly removes a media object, logging instead of failing.
func (service *Service) destroyQuietly(context context.Context, objectURL string) {
	if objectURL == "" {
		return
	}
	if err := service.mediaStore.Destroy(context, objectURL); err != nil && !errors.Is(err, media.ErrNotFound) {
		service.logger.WarnContext(context, "profile photo cleanup failed",
			slog.String("object_url", objectURL),
			slog.Any("error", err))
	}
}
