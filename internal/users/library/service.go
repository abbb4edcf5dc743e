// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package library

import (
	"context"
	"log/slog"

	"github.com/dangvh/libris/internal/catalog/book"
	"github.com/dangvh/libris/internal/platform/apperr"
	"github.com/dangvh/libris/internal/platform/validate"
)

// Service implements the business rules for favorites and download history.
type Service struct {
	repository Repository
	logger     *slog.Logger

	// dedupDownloads suppresses repeat download rows for the same
	// (user, book) pair. History is append-only when this is off.
	dedupDownloads bool
}

// NewService constructs a library service.
func NewService(repository Repository, logger *slog.Logger, dedupDownloads bool) *Service {
	return &Service{
		repository:     repository,
		logger:         logger.With(slog.String("component", "library_service")),
		dedupDownloads: dedupDownloads,
	}
}

// GetFavorites returns the user's favorite books. An unknown email is a
// NotFound error; a known user with no favorites gets an empty list.
func (service *Service) GetFavorites(ctx context.Context, email string) ([]*book.Book, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	userID, err := service.repository.ResolveUserID(ctx, email)
	if err != nil {
		return nil, err
	}

	favorites, err := service.repository.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []*book.Book{}
	}
	return favorites, nil
}

// AddFavorite puts the book on the user's shelf. The insert is add-if-absent
// at the storage layer, so two concurrent adds of the same pair cannot
// produce duplicates; re-adding an existing favorite succeeds with
// Added=false.
func (service *Service) AddFavorite(ctx context.Context, input Input) (*AddFavoriteResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	userID, err := service.repository.ResolveUserID(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if err := service.requireBook(ctx, input.BookID); err != nil {
		return nil, err
	}

	added, err := service.repository.AddFavorite(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}

	if !added {
		return &AddFavoriteResult{Added: false, Message: "Book is already in favorites"}, nil
	}

	service.logger.InfoContext(ctx, "favorite added",
		slog.String("user_id", userID),
		slog.String("book_id", input.BookID))

	return &AddFavoriteResult{Added: true, Message: "Book added to favorites"}, nil
}

// GetDownloads returns the user's download history, newest first.
func (service *Service) GetDownloads(ctx context.Context, email string) ([]*DownloadEntry, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	userID, err := service.repository.ResolveUserID(ctx, email)
	if err != nil {
		return nil, err
	}

	downloads, err := service.repository.ListDownloads(ctx, userID)
	if err != nil {
		return nil, err
	}
	if downloads == nil {
		downloads = []*DownloadEntry{}
	}
	return downloads, nil
}

// RecordDownload appends a download event. When the dedup policy is enabled
// a repeat download of the same book is a silent no-op.
func (service *Service) RecordDownload(ctx context.Context, input Input) error {
	if err := validateInput(input); err != nil {
		return err
	}

	userID, err := service.repository.ResolveUserID(ctx, input.Email)
	if err != nil {
		return err
	}

	if err := service.requireBook(ctx, input.BookID); err != nil {
		return err
	}

	if service.dedupDownloads {
		seen, err := service.repository.HasDownloaded(ctx, userID, input.BookID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}

	if err := service.repository.AddDownload(ctx, userID, input.BookID); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "download recorded",
		slog.String("user_id", userID),
		slog.String("book_id", input.BookID))
	return nil
}

// requireBook turns a missing catalog book into a NotFound error.
func (service *Service) requireBook(ctx context.Context, bookID string) error {
	exists, err := service.repository.BookExists(ctx, bookID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Book")
	}
	return nil
}

func validateEmail(email string) error {
	validator := &validate.Validator{}
	return validator.
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Err()
}

func validateInput(input Input) error {
	validator := &validate.Validator{}
	return validator.
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldBookID, input.BookID).
		Err()
}
