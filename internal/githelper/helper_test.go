package githelper

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/gcli/internal/testutil"
)

func TestParseRequest(t *testing.T) {
	input := "protocol=https\nhost=source.developers.google.com\ngarbage\npath= p/repo \n=novalue\n"
	info, err := ParseRequest(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"protocol": "https",
		"host":     "source.developers.google.com",
		"path":     "p/repo",
	}, info)
}

func TestCredentialedDomains(t *testing.T) {
	got := CredentialedDomains([]string{" git.example.com", "", "code.google.com"})
	assert.Equal(t, []string{"code.google.com", "source.developers.google.com", "git.example.com"}, got)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		input      string
		account    string
		extra      []string
		tokenErr   error
		wantOut    string
		wantErrOut string
	}{
		{
			name:    "get for google host",
			method:  "get",
			input:   "protocol=https\nhost=source.developers.google.com\n",
			account: "me@example.com",
			wantOut: "username=me@example.com\npassword=tok-123\n",
		},
		{
			name:    "default username",
			method:  "get",
			input:   "protocol=https\nhost=code.google.com\n",
			wantOut: "username=oauth2accesstoken\npassword=tok-123\n",
		},
		{
			name:    "extra domain",
			method:  "get",
			input:   "protocol=https\nhost=git.example.com\n",
			extra:   []string{"git.example.com"},
			wantOut: "username=oauth2accesstoken\npassword=tok-123\n",
		},
		{
			name:   "other host",
			method: "get",
			input:  "protocol=https\nhost=github.com\n",
		},
		{
			name:   "plain http",
			method: "get",
			input:  "protocol=http\nhost=code.google.com\n",
		},
		{
			name:   "store ignored",
			method: "store",
			input:  "protocol=https\nhost=code.google.com\n",
		},
		{
			name:       "token failure",
			method:     "get",
			input:      "protocol=https\nhost=code.google.com\n",
			tokenErr:   errors.New("no credentials"),
			wantErrOut: "ERROR: no credentials\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			h := &Helper{
				Account:      tt.account,
				ExtraDomains: tt.extra,
				Tokens:       &testutil.MockTokenSource{Token: "tok-123", Err: tt.tokenErr},
				Home:         t.TempDir(),
				Stdout:       &out,
				Stderr:       &errOut,
			}
			require.NoError(t, h.Run(context.Background(), tt.method, strings.NewReader(tt.input)))
			assert.Equal(t, tt.wantOut, out.String())
			if tt.wantErrOut != "" {
				assert.True(t, strings.HasPrefix(errOut.String(), tt.wantErrOut), errOut.String())
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestRunWarnsAboutNetrc(t *testing.T) {
	home := t.TempDir()
	netrc := testutil.WriteFile(t, home, ".netrc", "machine source.developers.google.com login me password secret\n")
	testutil.WriteFile(t, home, "_netrc", "machine github.com login me password secret\n")

	var out, errOut bytes.Buffer
	h := &Helper{
		Tokens: &testutil.MockTokenSource{Token: "tok"},
		Home:   home,
		Stdout: &out,
		Stderr: &errOut,
	}
	require.NoError(t, h.Run(context.Background(), "get", strings.NewReader("protocol=https\nhost=code.google.com\n")))

	assert.Contains(t, errOut.String(), "You have credentials for your Google repository in ["+netrc+"]")
	assert.Equal(t, 1, strings.Count(errOut.String(), "You have credentials"))
	assert.Equal(t, "username=oauth2accesstoken\npassword=tok\n", out.String())
}
