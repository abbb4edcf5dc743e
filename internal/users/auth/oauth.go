// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dangvh/libris/internal/platform/apperr"
)

// googleUserInfoURL is the endpoint that resolves an access token into the
// signed-in Google profile.
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// ExternalIdentity is the subset of a federated profile the platform needs.
type ExternalIdentity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// IdentityProvider abstracts the OAuth provider so the service can be tested
// without network calls.
type IdentityProvider interface {
	// AuthCodeURL builds the provider's consent-screen URL carrying the
	// state nonce.
	AuthCodeURL(state string) string

	// FetchIdentity exchanges the authorization code and resolves the
	// signed-in profile.
	FetchIdentity(context context.Context, code string) (*ExternalIdentity, error)
}

// GoogleProvider implements [IdentityProvider] against Google's OAuth 2.0
// endpoints.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider constructs a provider from the application's Google
// OAuth client registration.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthCodeURL builds the consent-screen URL for a sign-in round trip.
func (provider *GoogleProvider) AuthCodeURL(state string) string {
	return provider.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

/*
FetchIdentity exchanges the authorization code for tokens and fetches the
signed-in user's profile.

Description: A failed exchange is treated as Unauthorized (the code was bad,
expired, or replayed); transport failures after a good exchange are internal.

Parameters:
  - context: context.Context
  - code: string

Returns:
  - *ExternalIdentity: Verified profile (email, name, picture)
  - error: Unauthorized or connectivity errors
*/
func (provider *GoogleProvider) FetchIdentity(context context.Context, code string) (*ExternalIdentity, error) {
	token, err := provider.config.Exchange(context, code)
	if err != nil {
		return nil, apperr.Unauthorized("Google sign-in could not be completed")
	}

	client := provider.config.Client(context, token)
	response, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("google_userinfo_fetch_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google_userinfo_status: %d", response.StatusCode)
	}

	identity := &ExternalIdentity{}
	if err := json.NewDecoder(response.Body).Decode(identity); err != nil {
		return nil, fmt.Errorf("google_userinfo_decode_failed: %w", err)
	}

	if identity.Email == "" {
		return nil, apperr.Unauthorized("Google account did not expose an email address")
	}

	return identity, nil
}
