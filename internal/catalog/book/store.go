// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package book

import "context"

// Repository is the persistence contract for catalog records.
type Repository interface {
	ListBooks(context context.Context, f Filter, limit, offset int) ([]*Book, int, error)
	GetBook(context context.Context, id string) (*Book, error)
	CreateBook(context context.Context, b *Book) error
	UpdateBook(context context.Context, b *Book) error
	DeleteBook(context context.Context, id string) error
}
