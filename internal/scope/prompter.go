package scope

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

// NonInteractive never prompts.
type NonInteractive struct{}

func (NonInteractive) CanPrompt() bool { return false }

func (NonInteractive) PromptChoice(string, []string) (int, error) {
	return -1, apperrors.New(apperrors.ErrCodeCannotPrompt, "Unable to prompt.")
}

// HuhPrompter shows a terminal selector. It only prompts when stdin is a
// terminal and prompts are not disabled.
type HuhPrompter struct {
	disabled bool
	input    *os.File
}

// NewHuhPrompter returns a prompter reading from stdin. disabled mirrors
// the core/disable_prompts property and --quiet.
func NewHuhPrompter(disabled bool) *HuhPrompter {
	return &HuhPrompter{disabled: disabled, input: os.Stdin}
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func (p *HuhPrompter) CanPrompt() bool {
	return !p.disabled && IsInteractive(p.input)
}

func (p *HuhPrompter) PromptChoice(message string, options []string) (int, error) {
	if !p.CanPrompt() {
		return -1, apperrors.New(apperrors.ErrCodeCannotPrompt, "Unable to prompt.")
	}
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}

	choice := -1
	err := huh.NewSelect[int]().
		Title(message).
		Options(opts...).
		Value(&choice).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return -1, apperrors.Tool("Aborted by user.")
		}
		return -1, apperrors.Tool("prompt failed: %v", err)
	}
	return choice, nil
}

// Confirm asks a yes/no question. With prompts disabled it answers yes,
// the way --quiet accepts every default.
func (p *HuhPrompter) Confirm(message string) (bool, error) {
	if p.disabled {
		return true, nil
	}
	if !IsInteractive(p.input) {
		return false, apperrors.Tool("%s Re-run with --quiet to confirm non-interactively.", message)
	}
	var ok bool
	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, apperrors.Tool("prompt failed: %v", err)
	}
	return ok, nil
}
