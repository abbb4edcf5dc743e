// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, common body
decoding patterns, and multipart file handling, ensuring consistent error
handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangvh/libris/internal/platform/apperr"
	"github.com/dangvh/libris/internal/platform/constants"
	"github.com/dangvh/libris/internal/platform/ctxutil"
	"github.com/dangvh/libris/internal/platform/sec"
	"github.com/dangvh/libris/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
//
// Returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter (UUID/slug) from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Multipart Handling

// FileUpload carries one uploaded file part, decoupled from net/http so the
// service layer can accept files without importing transport types.
type FileUpload struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string

	closer io.Closer
}

// Close releases the underlying multipart file handle.
func (f *FileUpload) Close() error {
	if f == nil || f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// ParseMultipart parses the request body as multipart form data, bounded by
// [constants.MaxUploadBytes].
func ParseMultipart(request *http.Request) error {
	request.Body = http.MaxBytesReader(nil, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return apperr.ValidationError("Invalid or oversized multipart payload")
	}
	return nil
}

// File extracts a named file part from a previously parsed multipart form.
//
// A missing part is not an error: the pointer is nil. This is what gives
// update endpoints their replace-if-provided semantics.
func File(request *http.Request, name string) (*FileUpload, error) {
	file, header, err := request.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperr.ValidationError("Malformed file field: " + name)
	}

	return &FileUpload{
		Reader:      file,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: partContentType(header),
		closer:      file,
	}, nil
}

// partContentType reads the Content-Type of a multipart part with a safe fallback.
func partContentType(header *multipart.FileHeader) string {
	if contentType := header.Header.Get("Content-Type"); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

// # Identity Helpers

// Claims extracts the authenticated user claims from the request context.
//
// Returns nil if the request is not authenticated.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredClaims ensures the request is authenticated and returns the user claims.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
