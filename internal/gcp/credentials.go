package gcp

import (
	"context"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

// CloudPlatformScope is requested for every token.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Credentials selects how API clients authenticate. Credential holds
// either service account JSON or a path to it; empty means Application
// Default Credentials.
type Credentials struct {
	Credential string
	// Endpoint overrides the API base URL. Tests point it at a local
	// server and leave Credential empty.
	Endpoint string
}

func (c Credentials) isJSON() bool {
	return strings.HasPrefix(strings.TrimSpace(c.Credential), "{")
}

// ClientOptions converts the credentials into client options.
func (c Credentials) ClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case c.Endpoint != "":
		opts = append(opts, option.WithEndpoint(c.Endpoint), option.WithoutAuthentication())
		return opts
	case c.Credential == "":
	case c.isJSON():
		opts = append(opts, option.WithCredentialsJSON([]byte(c.Credential)))
	default:
		opts = append(opts, option.WithCredentialsFile(c.Credential))
	}
	return opts
}

// TokenSource returns an OAuth2 token source for the credentials.
func (c Credentials) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if c.Credential == "" {
		creds, err := google.FindDefaultCredentials(ctx, CloudPlatformScope)
		if err != nil {
			return nil, apperrors.ProviderAuthError("Google Cloud", err)
		}
		if creds == nil || creds.TokenSource == nil {
			return nil, apperrors.New(apperrors.ErrCodeProviderAuth, "No Google Cloud credentials found")
		}
		return creds.TokenSource, nil
	}

	data := []byte(c.Credential)
	if !c.isJSON() {
		var err error
		data, err = os.ReadFile(c.Credential)
		if err != nil {
			return nil, apperrors.ProviderAuthError("Google Cloud", err)
		}
	}
	creds, err := google.CredentialsFromJSON(ctx, data, CloudPlatformScope)
	if err != nil {
		return nil, apperrors.ProviderAuthError("Google Cloud", err)
	}
	return creds.TokenSource, nil
}

// AccessToken fetches a current access token.
func (c Credentials) AccessToken(ctx context.Context) (string, error) {
	ts, err := c.TokenSource(ctx)
	if err != nil {
		return "", err
	}
	tok, err := ts.Token()
	if err != nil {
		return "", apperrors.ProviderAuthError("Google Cloud", err)
	}
	return tok.AccessToken, nil
}
