package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/desertthunder/gameretriever/internal/shared"
)

const DefaultTwitchTokenURL = "https://id.twitch.tv/oauth2/token"

// Authenticator obtains IGDB credentials from a Twitch application.
type Authenticator interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) (*shared.Credentials, error)
}

// TwitchAuthenticator implements [Authenticator] with the client credentials grant.
type TwitchAuthenticator struct {
	tokenURL   string
	httpClient *http.Client
}

// NewTwitchAuthenticator creates an authenticator for tokenURL, defaulting to the Twitch endpoint.
func NewTwitchAuthenticator(tokenURL string, client *http.Client) *TwitchAuthenticator {
	if tokenURL == "" {
		tokenURL = DefaultTwitchTokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &TwitchAuthenticator{tokenURL: tokenURL, httpClient: client}
}

// Authenticate exchanges the client id and secret for an app access token.
func (a *TwitchAuthenticator) Authenticate(ctx context.Context, clientID, clientSecret string) (*shared.Credentials, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: twitch client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	config := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     a.tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	token, err := config.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, fmt.Errorf("%w: twitch rejected the client credentials (HTTP %d)", shared.ErrAuthFailed, retrieveErr.Response.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return &shared.Credentials{ClientID: clientID, AccessToken: token.AccessToken}, nil
}
