package gcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

func TestClientOptions(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  int
	}{
		{name: "application default", creds: Credentials{}, want: 0},
		{name: "inline json", creds: Credentials{Credential: ` {"type":"service_account"}`}, want: 1},
		{name: "file path", creds: Credentials{Credential: "/etc/gcli/key.json"}, want: 1},
		{name: "endpoint override", creds: Credentials{Credential: "/ignored.json", Endpoint: "http://localhost:8080/"}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.creds.ClientOptions(), tt.want)
		})
	}
}

func TestTokenSourceMissingFile(t *testing.T) {
	creds := Credentials{Credential: t.TempDir() + "/missing.json"}
	_, err := creds.TokenSource(context.Background())
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeProviderAuth, appErr.Code)
}

func TestTokenSourceBadJSON(t *testing.T) {
	creds := Credentials{Credential: `{"type":`}
	_, err := creds.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to authenticate with Google Cloud")
}
