// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package book implements the catalog domain: the records describing every
title in the e-library, their metadata, and their associated media objects
(cover image, PDF) hosted in the object store.

# Architecture

  - Entities: Book, Filter, Input (write payload), CleanupReport.
  - Service: validation, category normalization, media upload orchestration.
  - Repository: abstracted Postgres persistence.

The service layer owns the ordering guarantee that media uploads happen
BEFORE any document write, so a failed upload can never leave a partial
book record behind.
*/
package book

import "time"

// # Domain Entities

// Book represents one catalog entry. The document stores media URLs only —
// binary content lives in the object store.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`

	// Category is always persisted lower-cased; lookups are additionally
	// case-insensitive as a defense against legacy rows.
	Category string `json:"category"`

	CoverImageURL *string `json:"cover_image_url"`
	PDFURL        *string `json:"pdf_url"`

	// AdminEmail identifies the administrative account that owns this record.
	AdminEmail string `json:"admin_email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter holds the optional predicates for a catalog listing.
type Filter struct {
	// AdminEmail restricts results to books owned by one admin account.
	AdminEmail string
	// Category matches case-insensitively against the stored category.
	Category string
}

// Input is the write payload for create and update operations.
type Input struct {
	Title       string
	Author      string
	Description string
	Category    string
	AdminEmail  string
}

// CleanupReport describes the outcome of a delete: the document removal is
// authoritative, the media cleanup is best-effort and may partially fail.
type CleanupReport struct {
	// Deleted is true once the book document is gone.
	Deleted bool `json:"deleted"`
	// MediaFailures lists object URLs whose deletion failed and which may
	// need manual or scheduled reconciliation.
	MediaFailures []string `json:"media_failures,omitempty"`
}

// # Field Identifiers

// Global field names for validation in the catalog domain.
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldAdminEmail  = "admin_email"
	FieldID          = "id"
)
