// Package githelper implements the git credential helper protocol for
// Google-hosted git repositories.
package githelper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/pkg/logger"
)

// DefaultUsername is sent when no account is configured. Google git hosts
// accept any username alongside an OAuth2 access token.
const DefaultUsername = "oauth2accesstoken"

// DefaultDomains are always answered.
var DefaultDomains = []string{"code.google.com", "source.developers.google.com"}

var keyValue = regexp.MustCompile(`^(.+)=(.+)`)

// TokenSource yields an OAuth2 access token.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Helper answers git credential requests.
type Helper struct {
	Account      string
	ExtraDomains []string
	Tokens       TokenSource
	// Home is searched for .netrc and _netrc. Empty means the user's home.
	Home   string
	Stdout io.Writer
	Stderr io.Writer
	Log    *logger.Logger
}

// ParseRequest reads the key=value lines git writes to the helper. Lines
// that do not match are ignored and values are trimmed.
func ParseRequest(r io.Reader) (map[string]string, error) {
	info := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := keyValue.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		info[m[1]] = strings.TrimSpace(m[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTool, "could not read credential request")
	}
	return info, nil
}

// CredentialedDomains is DefaultDomains followed by the extra domains,
// without blanks or repeats.
func CredentialedDomains(extra []string) []string {
	all := append([]string{}, DefaultDomains...)
	for _, d := range extra {
		all = append(all, strings.TrimSpace(d))
	}
	return lo.Uniq(lo.Compact(all))
}

// Run handles one helper invocation. Only "get" produces output; store and
// erase are accepted and ignored.
func (h *Helper) Run(ctx context.Context, method string, in io.Reader) error {
	log := h.Log
	if log == nil {
		log = logger.Nop()
	}
	if method != "get" {
		log.Debugf("ignoring credential helper method %q", method)
		return nil
	}

	info, err := ParseRequest(in)
	if err != nil {
		return err
	}
	if info["protocol"] != "https" {
		return nil
	}
	if !lo.Contains(CredentialedDomains(h.ExtraDomains), info["host"]) {
		log.Debugf("host %q is not a credentialed domain", info["host"])
		return nil
	}

	token, err := h.Tokens.AccessToken(ctx)
	if err != nil {
		fmt.Fprintf(h.stderr(), "ERROR: %v\nRun 'gcloud auth application-default login' to log in.\n", err)
		return nil
	}

	h.checkNetrc(log)

	username := h.Account
	if username == "" {
		username = DefaultUsername
	}
	_, err = fmt.Fprintf(h.stdout(), "username=%s\npassword=%s\n", username, token)
	return err
}

func (h *Helper) stdout() io.Writer {
	if h.Stdout == nil {
		return os.Stdout
	}
	return h.Stdout
}

func (h *Helper) stderr() io.Writer {
	if h.Stderr == nil {
		return os.Stderr
	}
	return h.Stderr
}

// checkNetrc warns when a netrc file also holds credentials for a Google
// repository. Unreadable files are skipped.
func (h *Helper) checkNetrc(log *logger.Logger) {
	home := h.Home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return
		}
	}
	for _, name := range []string{".netrc", "_netrc"} {
		path := filepath.Join(home, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Debugf("could not read %s: %v", path, err)
			}
			continue
		}
		content := string(data)
		if lo.SomeBy(DefaultDomains, func(d string) bool { return strings.Contains(content, d) }) {
			fmt.Fprintf(h.stderr(), `You have credentials for your Google repository in [%[1]s]. This repository's
git credential helper is set correctly, so the credentials in [%[1]s] will not
be used, but you may want to remove them to avoid confusion.
`, path)
		}
	}
}
