// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package book provides the HTTP delivery layer for the catalog.

Endpoints follow a plain REST shape. Listing and detail are public; every
mutation is gated on the admin role. Create and update accept multipart
form data because they may carry a cover image and a PDF alongside the
metadata fields.
*/
package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangvh/libris/internal/platform/media"
	"github.com/dangvh/libris/internal/platform/middleware"
	requestutil "github.com/dangvh/libris/internal/platform/request"
	"github.com/dangvh/libris/internal/platform/respond"
	"github.com/dangvh/libris/internal/platform/sec"
	"github.com/dangvh/libris/internal/platform/validate"
	"github.com/dangvh/libris/pkg/pagination"
)

// Handler implements the catalog HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// # Endpoints
//   - GET    /          : List books (filter by adminEmail, category).
//   - GET    /{id}      : Fetch one book.
//   - POST   /          : Create a book (multipart; admin only).
//   - PUT    /{id}      : Update a book (multipart; admin only).
//   - DELETE /{id}      : Delete a book and its media (admin only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createBook)
		adminRoute.Put("/{id}", handler.updateBook)
		adminRoute.Delete("/{id}", handler.deleteBook)
	})

	return router
}

/*
listBooks returns the paginated catalog.

GET /api/v1/books?adminEmail=&category=

Response:
  - 200: Paginated book list (empty data array when nothing matches)
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		AdminEmail: request.URL.Query().Get("adminEmail"),
		Category:   request.URL.Query().Get("category"),
	}

	books, total, err := handler.service.ListBooks(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if books == nil {
		books = []*Book{}
	}

	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
getBook returns one catalog entry.

GET /api/v1/books/{id}

Response:
  - 200: Book
  - 404: NOT_FOUND
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	if id == "" {
		respond.Error(writer, request, validate.RequiredError(FieldID, "is required"))
		return
	}

	entity, err := handler.service.GetBook(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entity)
}

/*
createBook adds a new catalog entry with optional media.

POST /api/v1/books (multipart/form-data)

Request fields: title, author, description, category, adminEmail,
coverImage (file, optional), pdf (file, optional).

Response:
  - 201: Book
  - 400: VALIDATION_ERROR
  - 500: UPLOAD_FAILED or storage error (no partial record persisted)
*/
func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := Input{
		Title:       request.FormValue("title"),
		Author:      request.FormValue("author"),
		Description: request.FormValue("description"),
		Category:    request.FormValue("category"),
		AdminEmail:  request.FormValue("adminEmail"),
	}

	coverFile, pdfFile, err := extractMediaParts(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.CreateBook(request.Context(), input, coverFile, pdfFile)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, entity)
}

/*
updateBook rewrites a catalog entry; files are replace-if-provided.

PUT /api/v1/books/{id} (multipart/form-data)

Response:
  - 200: Book
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
  - 500: UPLOAD_FAILED or storage error
*/
func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	if id == "" {
		respond.Error(writer, request, validate.RequiredError(FieldID, "is required"))
		return
	}

	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := Input{
		Title:       request.FormValue("title"),
		Author:      request.FormValue("author"),
		Description: request.FormValue("description"),
		Category:    request.FormValue("category"),
		AdminEmail:  request.FormValue("adminEmail"),
	}

	coverFile, pdfFile, err := extractMediaParts(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.UpdateBook(request.Context(), id, input, coverFile, pdfFile)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entity)
}

/*
deleteBook removes a catalog entry and its media objects.

DELETE /api/v1/books/{id}

Response:
  - 200: CleanupReport (media_failures lists any objects left behind)
  - 404: NOT_FOUND
*/
func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	if id == "" {
		respond.Error(writer, request, validate.RequiredError(FieldID, "is required"))
		return
	}

	report, err := handler.service.DeleteBook(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

// extractMediaParts pulls the optional coverImage and pdf file parts and
// adapts them to the service-facing [media.UploadInput] type.
func extractMediaParts(request *http.Request) (cover, pdf *media.UploadInput, err error) {
	coverFile, err := requestutil.File(request, "coverImage")
	if err != nil {
		return nil, nil, err
	}

	pdfFile, err := requestutil.File(request, "pdf")
	if err != nil {
		coverFile.Close()
		return nil, nil, err
	}

	if coverFile != nil {
		cover = &media.UploadInput{
			Reader:      coverFile.Reader,
			Size:        coverFile.Size,
			Filename:    coverFile.Filename,
			ContentType: coverFile.ContentType,
		}
	}
	if pdfFile != nil {
		pdf = &media.UploadInput{
			Reader:      pdfFile.Reader,
			Size:        pdfFile.Size,
			Filename:    pdfFile.Filename,
			ContentType: pdfFile.ContentType,
		}
	}

	return cover, pdf, nil
}
