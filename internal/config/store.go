package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

// Setting is a property with its effective value.
type Setting struct {
	Property Property
	Value    string
	Set      bool
}

// Store reads properties through viper and persists changes to the YAML
// config file. Writes go through the file rather than viper.Set so that
// unset can remove a key again.
type Store struct {
	v    *viper.Viper
	path string
}

// NewStore returns a store over v backed by the file at path.
func NewStore(v *viper.Viper, path string) *Store {
	return &Store{v: v, path: path}
}

// Path is the config file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the effective value of a property: flag, environment, file
// or default, in that order.
func (s *Store) Get(name string) (Setting, error) {
	p, err := Lookup(name)
	if err != nil {
		return Setting{}, err
	}
	return s.setting(p), nil
}

func (s *Store) setting(p Property) Setting {
	value := s.v.GetString(p.Key())
	return Setting{Property: p, Value: value, Set: s.v.IsSet(p.Key()) && value != ""}
}

// List returns every property.
func (s *Store) List() []Setting {
	all := All()
	out := make([]Setting, 0, len(all))
	for _, p := range all {
		out = append(out, s.setting(p))
	}
	return out
}

// Set validates and stores a property value.
func (s *Store) Set(name, value string) (Property, error) {
	p, err := Lookup(name)
	if err != nil {
		return Property{}, err
	}
	if err := p.Check(value); err != nil {
		return Property{}, err
	}
	err = s.update(func(doc map[string]map[string]string) {
		if doc[p.Section] == nil {
			doc[p.Section] = map[string]string{}
		}
		doc[p.Section][p.Name] = value
	})
	return p, err
}

// Unset removes a property from the config file. Unsetting a property that
// is not set is not an error.
func (s *Store) Unset(name string) (Property, error) {
	p, err := Lookup(name)
	if err != nil {
		return Property{}, err
	}
	err = s.update(func(doc map[string]map[string]string) {
		delete(doc[p.Section], p.Name)
		if len(doc[p.Section]) == 0 {
			delete(doc, p.Section)
		}
	})
	return p, err
}

func (s *Store) update(change func(map[string]map[string]string)) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	change(doc)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfig, "failed to encode config")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfig, "failed to create config directory")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfig, fmt.Sprintf("failed to write %s", s.path))
	}
	if err := s.v.ReadInConfig(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfig, fmt.Sprintf("failed to reload %s", s.path))
	}
	return nil
}

func (s *Store) read() (map[string]map[string]string, error) {
	doc := map[string]map[string]string{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfig, fmt.Sprintf("failed to read %s", s.path))
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfig, fmt.Sprintf("failed to parse %s", s.path))
	}
	if doc == nil {
		doc = map[string]map[string]string{}
	}
	return doc, nil
}
