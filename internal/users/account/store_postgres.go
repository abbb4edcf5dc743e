// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package account (Postgres) implements the storage layer for user profiles.

# Schema Table Mapping
  - users.account: Master identity and profile data (shared with auth).
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dangvh/libris/internal/platform/apperr"
	"github.com/dangvh/libris/internal/users/auth"
)

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
FindByEmail retrieves a user record by their unique email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Loaded account entity
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*auth.User, error) {
	const query = `
		SELECT id, email, passwordhash, name, country, favoritebook, profilephoto, role, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	user := &auth.User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Country,
		&user.FavoriteBook,
		&user.ProfilePhoto,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return user, nil
}

/*
Update modifies the mutable profile fields of an existing user.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET name = $1, country = $2, favoritebook = $3, profilephoto = $4, updatedat = $5
		WHERE id = $6`

	user.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		user.Name,
		user.Country,
		user.FavoriteBook,
		user.ProfilePhoto,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
