package scope_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/scope"
)

func TestNonInteractive(t *testing.T) {
	p := scope.NonInteractive{}
	assert.False(t, p.CanPrompt())

	idx, err := p.PromptChoice("choose a zone:", []string{"us-central1-a"})
	assert.Equal(t, -1, idx)
	assert.ErrorIs(t, err, apperrors.ErrCannotPrompt)
}

func TestDisabledHuhPrompter(t *testing.T) {
	p := scope.NewHuhPrompter(true)
	assert.False(t, p.CanPrompt())

	_, err := p.PromptChoice("choose a zone:", []string{"us-central1-a"})
	assert.Error(t, err)

	ok, err := p.Confirm("Do you want to continue?")
	require.NoError(t, err)
	assert.True(t, ok, "--quiet accepts the default")
}

func TestIsInteractive(t *testing.T) {
	assert.False(t, scope.IsInteractive(nil))

	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, scope.IsInteractive(f))
}
