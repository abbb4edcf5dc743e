// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangvh/libris/internal/platform/apperr"
	"github.com/dangvh/libris/internal/platform/sec"
)

// # Fakes

type fakeUserRepository struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byEmail: map[string]*User{}, byID: map[string]*User{}}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := f.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

type fakeSessionRepository struct {
	byHash map[string]*Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{byHash: map[string]*Session{}}
}

func (f *fakeSessionRepository) Create(_ context.Context, session *Session) error {
	f.byHash[session.TokenHash] = session
	return nil
}

func (f *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	session, ok := f.byHash[tokenHash]
	if !ok || session.IsRevoked || session.ExpiresAt.Before(time.Now()) {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}

func (f *fakeSessionRepository) Revoke(_ context.Context, sessionID string) error {
	for _, session := range f.byHash {
		if session.ID == sessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, session := range f.byHash {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepository) DeleteExpired(_ context.Context) error { return nil }

type fakeVolatileStore struct {
	values map[string]string
}

func newFakeVolatileStore() *fakeVolatileStore {
	return &fakeVolatileStore{values: map[string]string{}}
}

func (f *fakeVolatileStore) Set(_ context.Context, token string, userID string, _ time.Duration) error {
	f.values[token] = userID
	return nil
}

func (f *fakeVolatileStore) Get(_ context.Context, token string) (string, error) {
	userID, ok := f.values[token]
	if !ok {
		return "", apperr.NotFound("Reset token is invalid or expired")
	}
	return userID, nil
}

func (f *fakeVolatileStore) Delete(_ context.Context, token string) error {
	delete(f.values, token)
	return nil
}

type fakeStateRepository struct {
	states map[string]bool
}

func newFakeStateRepository() *fakeStateRepository {
	return &fakeStateRepository{states: map[string]bool{}}
}

func (f *fakeStateRepository) Set(_ context.Context, state string, _ time.Duration) error {
	f.states[state] = true
	return nil
}

func (f *fakeStateRepository) Take(_ context.Context, state string) (bool, error) {
	if f.states[state] {
		delete(f.states, state)
		return true, nil
	}
	return false, nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, email, role string, _ time.Duration) (string, error) {
	return "jwt:" + userID + ":" + email + ":" + role, nil
}

type fakeIdentityProvider struct {
	identity *ExternalIdentity
}

func (f *fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (f *fakeIdentityProvider) FetchIdentity(_ context.Context, code string) (*ExternalIdentity, error) {
	if code != "good-code" {
		return nil, apperr.Unauthorized("Google sign-in could not be completed")
	}
	return f.identity, nil
}

// # Harness

type serviceHarness struct {
	service  *Service
	users    *fakeUserRepository
	sessions *fakeSessionRepository
	resets   *fakeVolatileStore
	states   *fakeStateRepository
}

func newServiceHarness(identity *ExternalIdentity) *serviceHarness {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	resets := newFakeVolatileStore()
	states := newFakeStateRepository()

	return &serviceHarness{
		service:  NewService(users, sessions, resets, states, fakeTokenProvider{}, &fakeIdentityProvider{identity: identity}),
		users:    users,
		sessions: sessions,
		resets:   resets,
		states:   states,
	}
}

func registeredUser(t *testing.T, harness *serviceHarness) *User {
	t.Helper()
	user, err := harness.service.Register(context.Background(), RegisterInput{
		Name:     "Reader",
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

// # Tests

func TestService_Register(t *testing.T) {
	t.Run("creates a member with hashed password", func(t *testing.T) {
		harness := newServiceHarness(nil)

		user := registeredUser(t, harness)

		assert.Equal(t, sec.RoleUser, user.Role)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "correct horse battery", user.PasswordHash)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		harness := newServiceHarness(nil)
		registeredUser(t, harness)

		_, err := harness.service.Register(context.Background(), RegisterInput{
			Name:     "Imposter",
			Email:    "reader@example.com",
			Password: "another password",
		})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 409, appError.HTTPStatus)
	})
}

func TestService_Login(t *testing.T) {
	t.Run("valid credentials establish a session", func(t *testing.T) {
		harness := newServiceHarness(nil)
		registeredUser(t, harness)

		session, err := harness.service.Login(context.Background(), LoginInput{
			Email:    "reader@example.com",
			Password: "correct horse battery",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.Len(t, harness.sessions.byHash, 1)
	})

	t.Run("wrong password and unknown email share one message", func(t *testing.T) {
		harness := newServiceHarness(nil)
		registeredUser(t, harness)

		_, wrongPassword := harness.service.Login(context.Background(), LoginInput{
			Email:    "reader@example.com",
			Password: "wrong",
		})
		_, unknownEmail := harness.service.Login(context.Background(), LoginInput{
			Email:    "ghost@example.com",
			Password: "wrong",
		})

		require.Error(t, wrongPassword)
		require.Error(t, unknownEmail)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("google-provisioned account rejects credentials login", func(t *testing.T) {
		harness := newServiceHarness(&ExternalIdentity{Email: "fed@example.com", Name: "Fed"})

		_, err := harness.service.BeginGoogleLogin(context.Background())
		require.NoError(t, err)

		// Provision through the federated path.
		for nonce := range harness.states.states {
			_, err = harness.service.CompleteGoogleLogin(context.Background(), nonce, "good-code", "", "")
			require.NoError(t, err)
		}

		_, err = harness.service.Login(context.Background(), LoginInput{
			Email:    "fed@example.com",
			Password: "anything",
		})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 401, appError.HTTPStatus)
	})
}

func TestService_RefreshSession(t *testing.T) {
	t.Run("rotation revokes the old token", func(t *testing.T) {
		harness := newServiceHarness(nil)
		registeredUser(t, harness)

		first, err := harness.service.Login(context.Background(), LoginInput{
			Email:    "reader@example.com",
			Password: "correct horse battery",
		})
		require.NoError(t, err)

		second, err := harness.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
		require.NoError(t, err)
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

		// Replaying the first token must now fail.
		_, err = harness.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 401, appError.HTTPStatus)
	})
}

func TestService_GoogleLogin(t *testing.T) {
	identity := &ExternalIdentity{Email: "fed@example.com", Name: "Fed", Picture: "https://example.com/p.png"}

	t.Run("first login provisions an account without a password", func(t *testing.T) {
		harness := newServiceHarness(identity)

		_, err := harness.service.BeginGoogleLogin(context.Background())
		require.NoError(t, err)
		require.Len(t, harness.states.states, 1)

		var nonce string
		for s := range harness.states.states {
			nonce = s
		}

		session, err := harness.service.CompleteGoogleLogin(context.Background(), nonce, "good-code", "", "")

		require.NoError(t, err)
		assert.Equal(t, "fed@example.com", session.User.Email)
		assert.Empty(t, session.User.PasswordHash)
		assert.Equal(t, sec.RoleUser, session.User.Role)
	})

	t.Run("second login reuses the existing account", func(t *testing.T) {
		harness := newServiceHarness(identity)

		for i := 0; i < 2; i++ {
			_, err := harness.service.BeginGoogleLogin(context.Background())
			require.NoError(t, err)
		}

		var sessions []*LoginSession
		for nonce := range harness.states.states {
			session, err := harness.service.CompleteGoogleLogin(context.Background(), nonce, "good-code", "", "")
			require.NoError(t, err)
			sessions = append(sessions, session)
		}

		require.Len(t, sessions, 2)
		assert.Equal(t, sessions[0].User.ID, sessions[1].User.ID)
	})

	t.Run("state nonce is single use", func(t *testing.T) {
		harness := newServiceHarness(identity)

		_, err := harness.service.BeginGoogleLogin(context.Background())
		require.NoError(t, err)

		var nonce string
		for s := range harness.states.states {
			nonce = s
		}

		_, err = harness.service.CompleteGoogleLogin(context.Background(), nonce, "good-code", "", "")
		require.NoError(t, err)

		_, err = harness.service.CompleteGoogleLogin(context.Background(), nonce, "good-code", "", "")
		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 401, appError.HTTPStatus)
	})

	t.Run("unknown state is rejected", func(t *testing.T) {
		harness := newServiceHarness(identity)

		_, err := harness.service.CompleteGoogleLogin(context.Background(), "forged", "good-code", "", "")

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 401, appError.HTTPStatus)
	})
}

func TestService_ResetPassword(t *testing.T) {
	t.Run("reset rotates the hash and revokes sessions", func(t *testing.T) {
		harness := newServiceHarness(nil)
		user := registeredUser(t, harness)

		_, err := harness.service.Login(context.Background(), LoginInput{
			Email:    "reader@example.com",
			Password: "correct horse battery",
		})
		require.NoError(t, err)

		token, err := harness.service.RequestPasswordReset(context.Background(), "reader@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		require.NoError(t, harness.service.ResetPassword(context.Background(), token, "a brand new password"))

		for _, session := range harness.sessions.byHash {
			assert.True(t, session.IsRevoked)
		}

		_, err = harness.service.Login(context.Background(), LoginInput{
			Email:    "reader@example.com",
			Password: "a brand new password",
		})
		require.NoError(t, err)
		_ = user
	})

	t.Run("unknown email yields no token and no error", func(t *testing.T) {
		harness := newServiceHarness(nil)

		token, err := harness.service.RequestPasswordReset(context.Background(), "ghost@example.com")

		require.NoError(t, err)
		assert.Empty(t, token)
	})
}
