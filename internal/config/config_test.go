package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/scope"
	"github.com/pratik-mahalle/gcli/internal/testutil"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare core name", input: "project", want: "core/project"},
		{name: "qualified", input: "compute/zone", want: "compute/zone"},
		{name: "core qualified", input: "core/disable_prompts", want: "core/disable_prompts"},
		{name: "unknown", input: "compute/machine", wantErr: true},
		{name: "bare compute name", input: "zone", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Lookup(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "Invalid property ["+tt.input+"]", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestPropertyCheck(t *testing.T) {
	assert.NoError(t, DisablePrompts.Check("true"))
	assert.Error(t, DisablePrompts.Check("yes please"))
	assert.NoError(t, Verbosity.Check("debug"))
	assert.Error(t, Verbosity.Check("loud"))
	assert.NoError(t, Project.Check("anything-goes"))
}

func TestAllIsSorted(t *testing.T) {
	all := All()
	require.Len(t, all, len(properties))
	assert.Equal(t, "compute/region", all[0].String())
	assert.Equal(t, "core/verbosity", all[len(all)-1].String())
}

func TestLoad(t *testing.T) {
	v, _ := testutil.NewTestViper(t, `
core:
  project: my-project
  credentialed_hosted_repo_domains: "git.example.com, , source.example.org"
  disable_prompts: "true"
compute:
  zone: us-central1-a
`)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "my-project", cfg.Project)
	assert.Equal(t, []string{"git.example.com", "source.example.org"}, cfg.CredentialedDomains)
	assert.True(t, cfg.DisablePrompts)
	assert.Equal(t, "warning", cfg.Verbosity)

	zone, ok := cfg.Default(scope.Zone)
	assert.True(t, ok)
	assert.Equal(t, "us-central1-a", zone)
	_, ok = cfg.Default(scope.Region)
	assert.False(t, ok)
	_, ok = cfg.Default(scope.Global)
	assert.False(t, ok)
}

func TestLoadRejectsBadVerbosity(t *testing.T) {
	v, _ := testutil.NewTestViper(t, "core:\n  verbosity: loud\n")

	_, err := Load(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "[verbosity] must be one of")
}

func TestInitReadsEnvironment(t *testing.T) {
	t.Setenv("GCLI_CORE_PROJECT", "from-env")
	path := filepath.Join(t.TempDir(), "missing", "config.yaml")

	v := viper.New()
	got, err := Init(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Project)
}

func TestStoreSetGetUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gcli", "config.yaml")
	v := viper.New()
	_, err := Init(v, path)
	require.NoError(t, err)
	store := NewStore(v, path)

	_, err = store.Set("project", "my-project")
	require.NoError(t, err)
	_, err = store.Set("compute/zone", "us-central1-a")
	require.NoError(t, err)

	s, err := store.Get("core/project")
	require.NoError(t, err)
	assert.True(t, s.Set)
	assert.Equal(t, "my-project", s.Value)

	p, err := store.Unset("project")
	require.NoError(t, err)
	assert.Equal(t, "core/project", p.String())

	s, err = store.Get("project")
	require.NoError(t, err)
	assert.False(t, s.Set)
	assert.Empty(t, s.Value)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "core:")
	assert.Contains(t, string(data), "zone: us-central1-a")

	// unsetting twice is fine
	_, err = store.Unset("project")
	assert.NoError(t, err)
}

func TestStoreRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store := NewStore(viper.New(), path)

	_, err := store.Set("verbosity", "loud")
	require.Error(t, err)
	_, err = store.Set("compute/machine", "x")
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on failure")
}

func TestStoreList(t *testing.T) {
	v, path := testutil.NewTestViper(t, "compute:\n  region: us-central1\n")
	settings := NewStore(v, path).List()

	require.Len(t, settings, len(properties))
	byName := map[string]Setting{}
	for _, s := range settings {
		byName[s.Property.String()] = s
	}
	assert.Equal(t, "us-central1", byName["compute/region"].Value)
	assert.True(t, byName["compute/region"].Set)
	assert.False(t, byName["core/project"].Set)
}
