// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package library (Postgres) implements the storage layer for favorites and
download history.

# Schema Table Mapping
  - library.favorite: (user_id, book_id) pairs; UNIQUE(user_id, book_id).
  - library.download: append-only download events.

Reads join against catalog.book so callers get fully dereferenced books.
*/
package library

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dangvh/libris/internal/catalog/book"
	"github.com/dangvh/libris/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of the library repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const joinedBookColumns = `b.id, b.title, b.author, b.description, b.category, b.coverimageurl, b.pdfurl, b.adminemail, b.createdat, b.updatedat`

// ResolveUserID maps an account email to its id.
func (repository *PostgresRepository) ResolveUserID(ctx context.Context, email string) (string, error) {
	query := `SELECT id FROM users.account WHERE email = $1`

	var userID string
	if err := repository.pool.QueryRow(ctx, query, email).Scan(&userID); err != nil {
		return "", dberr.Wrap(err, "resolve_user")
	}
	return userID, nil
}

// BookExists reports whether a catalog book with the given id exists.
func (repository *PostgresRepository) BookExists(ctx context.Context, bookID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM catalog.book WHERE id = $1)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, bookID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "book_exists")
	}
	return exists, nil
}

// ListFavorites returns the user's favorite books, newest favorite first.
func (repository *PostgresRepository) ListFavorites(ctx context.Context, userID string) ([]*book.Book, error) {
	query := `
		SELECT ` + joinedBookColumns + `
		FROM library.favorite f
		JOIN catalog.book b ON b.id = f.book_id
		WHERE f.user_id = $1
		ORDER BY f.createdat DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	var books []*book.Book
	for rows.Next() {
		b := &book.Book{}
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Description, &b.Category,
			&b.CoverImageURL, &b.PDFURL, &b.AdminEmail, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_favorite")
		}
		books = append(books, b)
	}
	return books, dberr.Wrap(rows.Err(), "list_favorites")
}

// AddFavorite inserts the pair if absent. ON CONFLICT DO NOTHING makes the
// add-if-absent atomic; the affected-row count tells us whether it was new.
func (repository *PostgresRepository) AddFavorite(ctx context.Context, userID, bookID string) (bool, error) {
	query := `
		INSERT INTO library.favorite (user_id, book_id, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, book_id) DO NOTHING`

	tag, err := repository.pool.Exec(ctx, query, userID, bookID, time.Now())
	if err != nil {
		return false, dberr.Wrap(err, "add_favorite")
	}
	return tag.RowsAffected() > 0, nil
}

// ListDownloads returns the user's download history, newest first.
func (repository *PostgresRepository) ListDownloads(ctx context.Context, userID string) ([]*DownloadEntry, error) {
	query := `
		SELECT ` + joinedBookColumns + `, d.downloadedat
		FROM library.download d
		JOIN catalog.book b ON b.id = d.book_id
		WHERE d.user_id = $1
		ORDER BY d.downloadedat DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_downloads")
	}
	defer rows.Close()

	var entries []*DownloadEntry
	for rows.Next() {
		b := &book.Book{}
		entry := &DownloadEntry{Book: b}
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Description, &b.Category,
			&b.CoverImageURL, &b.PDFURL, &b.AdminEmail, &b.CreatedAt, &b.UpdatedAt,
			&entry.DownloadedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_download")
		}
		entries = append(entries, entry)
	}
	return entries, dberr.Wrap(rows.Err(), "list_downloads")
}

// AddDownload appends a download event.
func (repository *PostgresRepository) AddDownload(ctx context.Context, userID, bookID string) error {
	query := `
		INSERT INTO library.download (user_id, book_id, downloadedat)
		VALUES ($1, $2, $3)`

	if _, err := repository.pool.Exec(ctx, query, userID, bookID, time.Now()); err != nil {
		return dberr.Wrap(err, "add_download")
	}
	return nil
}

// HasDownloaded reports whether a download row already exists for the pair.
func (repository *PostgresRepository) HasDownloaded(ctx context.Context, userID, bookID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM library.download WHERE user_id = $1 AND book_id = $2)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, userID, bookID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "has_downloaded")
	}
	return exists, nil
}
