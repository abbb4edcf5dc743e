// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package account handles user profile management.

It lets users view and update their private identity data (name, country,
favorite book, profile photo). The profile photo lives in the hosted media
store alongside catalog media.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Media: Photo uploads ride the same object-storage gateway as book covers.
*/
package account

import (
	"context"

	"github.com/dangvh/libris/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByEmail retrieves a user record by their unique email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error
}

// # Field Identifiers

const (
	FieldEmail        = "email"
	FieldName         = "name"
	FieldCountry      = "country"
	FieldFavoriteBook = "favoriteBook"
	FieldProfilePhoto = "profilePhoto"
)
