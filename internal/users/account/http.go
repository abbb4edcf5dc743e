// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangvh/libris/internal/platform/media"
	"github.com/dangvh/libris/internal/platform/middleware"
	requestutil "github.com/dangvh/libris/internal/platform/request"
	"github.com/dangvh/libris/internal/platform/respond"
)

// Handler implements profile HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with profile routes. Both routes
// require an authenticated session.
//
// # Endpoints
//   - GET /  : Fetch a profile by email.
//   - PUT /  : Merge-update profile fields (multipart; optional photo).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getProfile)
	router.Put("/", handler.updateProfile)

	return router
}

/*
getProfile returns the user's profile.

GET /api/v1/profile?email=

Response:
  - 200: User profile
  - 404: NOT_FOUND
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	email := request.URL.Query().Get(FieldEmail)

	user, err := handler.service.GetProfile(request.Context(), email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
updateProfile merges submitted fields into the stored profile.

PUT /api/v1/profile (multipart/form-data)

Request fields: email (required), name, country, favoriteBook,
profilePhoto (file, optional). Empty text fields keep their stored values.

Response:
  - 200: Updated user profile
  - 404: NOT_FOUND
  - 500: UPLOAD_FAILED
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := UpdateProfileInput{
		Email:        request.FormValue(FieldEmail),
		Name:         request.FormValue(FieldName),
		Country:      request.FormValue(FieldCountry),
		FavoriteBook: request.FormValue(FieldFavoriteBook),
	}

	photoFile, err := requestutil.File(request, FieldProfilePhoto)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var photo *media.UploadInput
	if photoFile != nil {
		photo = &media.UploadInput{
			Reader:      photoFile.Reader,
			Size:        photoFile.Size,
			Filename:    photoFile.Filename,
			ContentType: photoFile.ContentType,
		}
	}

	user, err := handler.service.UpdateProfile(request.Context(), input, photo)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}
