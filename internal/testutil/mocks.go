package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pratik-mahalle/gcli/internal/scope"
)

// MockPrompter is a mock implementation of scope.Prompter
type MockPrompter struct {
	Interactive bool
	Choice      int
	PromptError error
	Messages    []string
	Options     [][]string
	// Decline makes Confirm answer no.
	Decline  bool
	Confirms []string
}

func NewMockPrompter(choice int) *MockPrompter {
	return &MockPrompter{Interactive: true, Choice: choice}
}

func (m *MockPrompter) CanPrompt() bool {
	return m.Interactive
}

func (m *MockPrompter) PromptChoice(message string, options []string) (int, error) {
	m.Messages = append(m.Messages, message)
	m.Options = append(m.Options, options)
	if m.PromptError != nil {
		return -1, m.PromptError
	}
	return m.Choice, nil
}

func (m *MockPrompter) Confirm(message string) (bool, error) {
	m.Confirms = append(m.Confirms, message)
	if m.PromptError != nil {
		return false, m.PromptError
	}
	return !m.Decline, nil
}

// Calls returns how many prompts were shown.
func (m *MockPrompter) Calls() int {
	return len(m.Messages)
}

// MockDefaults is a mock implementation of scope.Defaults
type MockDefaults map[scope.Kind]string

func (m MockDefaults) Default(kind scope.Kind) (string, bool) {
	v, ok := m[kind]
	return v, ok
}

// MockChoiceFetcher is a mock implementation of scope.ChoiceFetcher
type MockChoiceFetcher struct {
	mu       sync.Mutex
	Choices  map[scope.Kind][]string
	Err      error
	Prefixes []string
}

func NewMockChoiceFetcher() *MockChoiceFetcher {
	return &MockChoiceFetcher{
		Choices: map[scope.Kind][]string{
			scope.Zone:   {"asia-east1-a", "europe-west1-b", "us-central1-a", "us-central1-b"},
			scope.Region: {"asia-east1", "europe-west1", "us-central1"},
		},
	}
}

func (m *MockChoiceFetcher) ScopeChoices(ctx context.Context, kind scope.Kind, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prefixes = append(m.Prefixes, prefix)
	if m.Err != nil {
		return nil, m.Err
	}
	var out []string
	for _, c := range m.Choices[kind] {
		if prefix == "" || strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Calls returns how many times choices were fetched.
func (m *MockChoiceFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prefixes)
}

// MockTokenSource returns a fixed access token.
type MockTokenSource struct {
	Token string
	Err   error
}

func (m *MockTokenSource) AccessToken(ctx context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Token == "" {
		return "", fmt.Errorf("no token configured")
	}
	return m.Token, nil
}
