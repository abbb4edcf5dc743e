// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package book

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dangvh/libris/internal/platform/apperr"
	"github.com/dangvh/libris/internal/platform/constants"
	"github.com/dangvh/libris/internal/platform/media"
	"github.com/dangvh/libris/internal/platform/validate"
	"github.com/dangvh/libris/pkg/uuid"
)

// Service implements the catalog use cases.
type Service struct {
	repo   Repository
	media  media.Store
	logger *slog.Logger
}

// NewService constructs a new catalog [Service].
func NewService(repo Repository, mediaStore media.Store, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		media:  mediaStore,
		logger: logger,
	}
}

// ListBooks returns catalog entries matching the filter.
//
// An empty result is not an error. The category predicate is matched
// case-insensitively by the repository.
func (service *Service) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	return service.repo.ListBooks(context, filter, limit, offset)
}

// GetBook returns a single catalog entry by ID.
func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	return service.repo.GetBook(context, id)
}

/*
CreateBook validates a submission, uploads any attached media, and persists
the catalog record.

Ordering invariant: both uploads complete before the insert. If either
upload fails the create aborts with UPLOAD_FAILED and no row is written;
an already-uploaded sibling object is destroyed so nothing is orphaned.

Parameters:
  - context: context.Context
  - input: Input (metadata fields)
  - coverFile: *media.UploadInput (optional cover image)
  - pdfFile: *media.UploadInput (optional PDF)

Returns:
  - *Book: The persisted entity with media URLs populated
  - error: VALIDATION_ERROR, UPLOAD_FAILED, or storage failures
*/
func (service *Service) CreateBook(context context.Context, input Input, coverFile, pdfFile *media.UploadInput) (*Book, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	entity := &Book{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Author:      strings.TrimSpace(input.Author),
		Description: strings.TrimSpace(input.Description),
		Category:    NormalizeCategory(input.Category),
		AdminEmail:  strings.TrimSpace(input.AdminEmail),
	}

	coverURL, pdfURL, err := service.uploadPair(context, coverFile, pdfFile)
	if err != nil {
		return nil, err
	}
	entity.CoverImageURL = coverURL
	entity.PDFURL = pdfURL

	if err := service.repo.CreateBook(context, entity); err != nil {
		// The row never existed; the fresh objects must not outlive it.
		service.destroyQuietly(context, coverURL)
		service.destroyQuietly(context, pdfURL)
		return nil, err
	}

	service.logger.Info("book_created",
		slog.String("book_id", entity.ID),
		slog.String("category", entity.Category),
		slog.String("admin_email", entity.AdminEmail),
	)
	return entity, nil
}

/*
UpdateBook applies a full metadata update plus replace-if-provided media
semantics: an omitted file leaves the stored URL untouched, a supplied file
replaces both the URL and the remote object.

Parameters:
  - context: context.Context
  - id: string (book UUID)
  - input: Input
  - coverFile, pdfFile: *media.UploadInput (both optional)

Returns:
  - *Book: The updated entity
  - error: NOT_FOUND, VALIDATION_ERROR, UPLOAD_FAILED, or storage failures
*/
func (service *Service) UpdateBook(context context.Context, id string, input Input, coverFile, pdfFile *media.UploadInput) (*Book, error) {
	existing, err := service.repo.GetBook(context, id)
	if err != nil {
		return nil, err
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	entity := &Book{
		ID:            existing.ID,
		Title:         strings.TrimSpace(input.Title),
		Author:        strings.TrimSpace(input.Author),
		Description:   strings.TrimSpace(input.Description),
		Category:      NormalizeCategory(input.Category),
		AdminEmail:    existing.AdminEmail,
		CoverImageURL: existing.CoverImageURL,
		PDFURL:        existing.PDFURL,
		CreatedAt:     existing.CreatedAt,
	}

	newCoverURL, newPDFURL, err := service.uploadPair(context, coverFile, pdfFile)
	if err != nil {
		return nil, err
	}
	if newCoverURL != nil {
		entity.CoverImageURL = newCoverURL
	}
	if newPDFURL != nil {
		entity.PDFURL = newPDFURL
	}

	if err := service.repo.UpdateBook(context, entity); err != nil {
		service.destroyQuietly(context, newCoverURL)
		service.destroyQuietly(context, newPDFURL)
		return nil, err
	}

	// The row now points at the replacements; the superseded objects are
	// cleaned up best-effort.
	if newCoverURL != nil {
		service.destroyQuietly(context, existing.CoverImageURL)
	}
	if newPDFURL != nil {
		service.destroyQuietly(context, existing.PDFURL)
	}

	service.logger.Info("book_updated", slog.String("book_id", entity.ID))
	return entity, nil
}

/*
DeleteBook removes a catalog record and attempts to destroy its media
objects.

Media cleanup is best-effort: each destroy is attempted exactly once and a
failure never blocks the document deletion. The returned [CleanupReport]
lists any object URLs left behind.

Parameters:
  - context: context.Context
  - id: string (book UUID)

Returns:
  - *CleanupReport: Deletion outcome including media drift
  - error: NOT_FOUND or storage failures
*/
func (service *Service) DeleteBook(context context.Context, id string) (*CleanupReport, error) {
	existing, err := service.repo.GetBook(context, id)
	if err != nil {
		return nil, err
	}

	report := &CleanupReport{}
	for _, objectURL := range []*string{existing.CoverImageURL, existing.PDFURL} {
		if objectURL == nil || *objectURL == "" {
			continue
		}
		if err := service.destroyOnce(context, *objectURL); err != nil {
			report.MediaFailures = append(report.MediaFailures, *objectURL)
		}
	}

	if err := service.repo.DeleteBook(context, id); err != nil {
		return nil, err
	}
	report.Deleted = true

	service.logger.Warn("book_deleted",
		slog.String("book_id", id),
		slog.Int("media_failures", len(report.MediaFailures)),
	)
	return report, nil
}

// # Internal Helpers

// NormalizeCategory lower-cases and trims a category for storage so that
// "Fiction", "FICTION", and "fiction" collapse to one shelf.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// validateInput enforces the required-field invariant: a book is never
// persisted without title, author, description, category, and owner.
func validateInput(input Input) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 300).
		Required(FieldAuthor, input.Author).MaxLen(FieldAuthor, input.Author, 200).
		Required(FieldDescription, input.Description).
		Required(FieldCategory, input.Category).MaxLen(FieldCategory, input.Category, 100).
		Required(FieldAdminEmail, input.AdminEmail)

	if strings.TrimSpace(input.AdminEmail) != "" {
		validator.Email(FieldAdminEmail, input.AdminEmail)
	}

	return validator.Err()
}

// uploadPair pushes the optional cover and PDF to their respective folders.
// On a second-upload failure the first object is destroyed so an aborted
// operation leaves no orphan behind.
func (service *Service) uploadPair(context context.Context, coverFile, pdfFile *media.UploadInput) (coverURL, pdfURL *string, err error) {
	if coverFile != nil {
		coverFile.Folder = constants.FolderBookCovers
		uploaded, uploadErr := service.media.Upload(context, *coverFile)
		if uploadErr != nil {
			return nil, nil, apperr.UploadFailed(uploadErr)
		}
		coverURL = &uploaded
	}

	if pdfFile != nil {
		pdfFile.Folder = constants.FolderBookPDFs
		uploaded, uploadErr := service.media.Upload(context, *pdfFile)
		if uploadErr != nil {
			service.destroyQuietly(context, coverURL)
			return nil, nil, apperr.UploadFailed(uploadErr)
		}
		pdfURL = &uploaded
	}

	return coverURL, pdfURL, nil
}

// destroyOnce attempts a single destroy. A missing object counts as success.
func (service *Service) destroyOnce(context context.Context, objectURL string) error {
	err := service.media.Destroy(context, objectURL)
	if err == nil || errors.Is(err, media.ErrNotFound) {
		return nil
	}

	service.logger.Warn("media_cleanup_failed",
		slog.String("object_url", objectURL),
		slog.Any("error", err),
	)
	return err
}

// destroyQuietly is destroyOnce for nil-able URLs where the outcome is
// logged but otherwise ignored.
func (service *Service) destroyQuietly(context context.Context, objectURL *string) {
	if objectURL == nil || *objectURL == "" {
		return
	}
	_ = service.destroyOnce(context, *objectURL)
}
