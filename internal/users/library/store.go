// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package library

import (
	"context"

	"github.com/dangvh/libris/internal/catalog/book"
)

// Repository defines the persistence contract for favorites and downloads.
//
// All lookups key on resolved user ids; the service resolves emails first via
// ResolveUserID so a missing user surfaces as a 404 before any mutation.
type Repository interface {
	// ResolveUserID maps an account email to its id. Returns
	// dberr.ErrNotFound for unknown emails.
	ResolveUserID(ctx context.Context, email string) (string, error)

	// BookExists reports whether a catalog book with the given id exists.
	BookExists(ctx context.Context, bookID string) (bool, error)

	// ListFavorites returns the user's favorite books, newest first.
	ListFavorites(ctx context.Context, userID string) ([]*book.Book, error)

	// AddFavorite inserts the (user, book) pair if absent. The returned
	// bool is true when a new row was written, false when the pair
	// already existed.
	AddFavorite(ctx context.Context, userID, bookID string) (bool, error)

	// ListDownloads returns the user's download history, newest first.
	ListDownloads(ctx context.Context, userID string) ([]*DownloadEntry, error)

	// AddDownload appends a download event.
	AddDownload(ctx context.Context, userID, bookID string) error

	// HasDownloaded reports whether the user already has a download row
	// for the book. Consulted only when the dedup policy is on.
	HasDownloaded(ctx context.Context, userID, bookID string) (bool, error)
}
