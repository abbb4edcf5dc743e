// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangvh/libris/internal/platform/middleware"
	requestutil "github.com/dangvh/libris/internal/platform/request"
	"github.com/dangvh/libris/internal/platform/respond"
)

// Handler implements the user-library HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with library routes. Every route
// requires an authenticated session.
//
// # Endpoints
//   - GET  /favorite : List the user's favorite books.
//   - POST /favorite : Add a book to favorites (idempotent).
//   - GET  /download : List the user's download history.
//   - POST /download : Record a download event.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/favorite", handler.listFavorites)
	router.Post("/favorite", handler.addFavorite)
	router.Get("/download", handler.listDownloads)
	router.Post("/download", handler.recordDownload)

	return router
}

/*
listFavorites returns the user's favorite books.

GET /api/v1/user/favorite?email=

Response:
  - 200: Book list (empty array when the shelf is empty)
  - 404: NOT_FOUND (unknown user)
*/
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	email := request.URL.Query().Get(FieldEmail)

	favorites, err := handler.service.GetFavorites(request.Context(), email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, favorites)
}

/*
addFavorite puts a book on the user's shelf.

POST /api/v1/user/favorite {email, bookId}

Response:
  - 200: AddFavoriteResult (added=false when it was already present)
  - 404: NOT_FOUND (unknown user or book; nothing written)
*/
func (handler *Handler) addFavorite(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.AddFavorite(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

/*
listDownloads returns the user's download history, newest first.

GET /api/v1/user/download?email=

Response:
  - 200: DownloadEntry list
  - 404: NOT_FOUND (unknown user)
*/
func (handler *Handler) listDownloads(writer http.ResponseWriter, request *http.Request) {
	email := request.URL.Query().Get(FieldEmail)

	downloads, err := handler.service.GetDownloads(request.Context(), email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, downloads)
}

/*
recordDownload appends a download event to the user's history.

POST /api/v1/user/download {email, bookId}

Response:
  - 200: message envelope
  - 404: NOT_FOUND (unknown user or book; nothing written)
*/
func (handler *Handler) recordDownload(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RecordDownload(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": "Download recorded"})
}
