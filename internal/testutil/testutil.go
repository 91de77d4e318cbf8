package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/pratik-mahalle/gcli/internal/pkg/logger"
)

// NewTestLogger returns a logger writing JSON into the returned buffer.
func NewTestLogger(t *testing.T, level string) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return logger.New(logger.Config{Level: level, Format: "json", Output: &buf}), &buf
}

// NewTestViper returns an isolated viper instance backed by a config file
// in a temporary directory. contents may be empty.
func NewTestViper(t *testing.T, contents string) (*viper.Viper, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("Failed to read test config: %v", err)
	}
	return v, path
}

// WriteFile creates a file under dir and returns its path.
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
