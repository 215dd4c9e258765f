package freshbooks

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Endpoint is the FreshBooks OAuth2 provider endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://my.freshbooks.com/service/auth/oauth/authorize",
	TokenURL: "https://api.freshbooks.com/auth/oauth/token",
}

// OAuthConfig builds the authorization-code flow config for a registered
// FreshBooks application.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     Endpoint,
	}
}

// ExchangeCode trades an authorization code for a bearer token.
func ExchangeCode(ctx context.Context, cfg *oauth2.Config, code string) (string, error) {
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}
	return token.AccessToken, nil
}
