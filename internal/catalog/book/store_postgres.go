// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package book (Postgres) implements the storage layer for the catalog.

# Schema Table Mapping
  - catalog.book: One row per catalog entry; media URLs stored as text.

Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
[apperr.AppError] types via dberr to avoid leaking storage details.
*/
package book

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dangvh/libris/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of the catalog repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const bookColumns = `id, title, author, description, category, coverimageurl, pdfurl, adminemail, createdat, updatedat`

// ListBooks returns catalog rows matching the filter plus the unpaginated total.
//
// Category stored values are already lower-cased; the ILIKE predicate keeps
// the lookup case-insensitive regardless.
func (repository *PostgresRepository) ListBooks(context context.Context, f Filter, limit, offset int) ([]*Book, int, error) {
	query := `SELECT ` + bookColumns + ` FROM catalog.book WHERE TRUE`
	countQuery := `SELECT count(*) FROM catalog.book WHERE TRUE`

	args := []any{}

	if f.AdminEmail != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		query += ` AND adminemail = ` + placeholder
		countQuery += ` AND adminemail = ` + placeholder
		args = append(args, f.AdminEmail)
	}

	if f.Category != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		query += ` AND category ILIKE ` + placeholder
		countQuery += ` AND category ILIKE ` + placeholder
		args = append(args, f.Category)
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	query += ` ORDER BY createdat DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b := &Book{}
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Description, &b.Category,
			&b.CoverImageURL, &b.PDFURL, &b.AdminEmail, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	return books, total, nil
}

// GetBook loads one catalog row by primary key.
func (repository *PostgresRepository) GetBook(context context.Context, id string) (*Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM catalog.book WHERE id = $1`

	b := &Book{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Category,
		&b.CoverImageURL, &b.PDFURL, &b.AdminEmail, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}

	return b, nil
}

// CreateBook inserts a new catalog row.
func (repository *PostgresRepository) CreateBook(context context.Context, b *Book) error {
	const query = `
		INSERT INTO catalog.book (
			id, title, author, description, category, coverimageurl, pdfurl, adminemail, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		b.ID, b.Title, b.Author, b.Description, b.Category,
		b.CoverImageURL, b.PDFURL, b.AdminEmail, b.CreatedAt, b.UpdatedAt,
	)
	return dberr.Wrap(err, "create_book")
}

// UpdateBook rewrites the mutable columns of an existing row.
func (repository *PostgresRepository) UpdateBook(context context.Context, b *Book) error {
	const query = `
		UPDATE catalog.book
		SET title = $2, author = $3, description = $4, category = $5,
		    coverimageurl = $6, pdfurl = $7, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	err := repository.pool.QueryRow(context, query,
		b.ID, b.Title, b.Author, b.Description, b.Category, b.CoverImageURL, b.PDFURL,
	).Scan(&b.UpdatedAt)
	return dberr.Wrap(err, "update_book")
}

// DeleteBook removes a row permanently.
func (repository *PostgresRepository) DeleteBook(context context.Context, id string) error {
	const query = `DELETE FROM catalog.book WHERE id = $1`

	cmd, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
