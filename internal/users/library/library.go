// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package library manages per-user reading state: the favorites shelf and the
download history.

Both features hang off the user's email (the identity the clients already
hold) and reference catalog books by id. Rows are dereferenced into full
[book.Book] values on the way out so clients never chase ids themselves.

# Architecture

	library.go          - Entities and request shapes
	store.go            - Repository contract
	store_postgres.go   - PostgreSQL implementation (library schema)
	service.go          - Business rules (idempotence, dedup policy)
	http.go             - HTTP delivery
*/
package library

import (
	"time"

	"github.com/dangvh/libris/internal/catalog/book"
)

// DownloadEntry is one row of a user's download history, with the referenced
// book dereferenced.
type DownloadEntry struct {
	Book         *book.Book `json:"book"`
	DownloadedAt time.Time  `json:"downloadedAt"`
}

// Input identifies the (user, book) pair a favorite or download concerns.
type Input struct {
	Email  string `json:"email"`
	BookID string `json:"bookId"`
}

// AddFavoriteResult reports whether the add changed anything. Re-adding an
// existing favorite is a success, not a conflict.
type AddFavoriteResult struct {
	Added   bool   `json:"added"`
	Message string `json:"message"`
}

// Field name constants for validation error details.
const (
	FieldEmail  = "email"
	FieldBookID = "bookId"
)
