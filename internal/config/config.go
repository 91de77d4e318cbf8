package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/gcli/internal/pkg/validator"
	"github.com/pratik-mahalle/gcli/internal/scope"
)

// EnvPrefix prefixes every environment override, e.g. GCLI_CORE_PROJECT.
const EnvPrefix = "GCLI"

// Config holds the resolved properties for one invocation
type Config struct {
	Project             string   `flag:"project" validate:"omitempty,max=100"`
	Account             string   `flag:"account"`
	CredentialFile      string   `flag:"credential-file"`
	CredentialedDomains []string `flag:"core/credentialed_hosted_repo_domains" validate:"dive,hostname"`
	Verbosity           string   `flag:"verbosity" validate:"oneof=debug info warning error critical none"`
	DisablePrompts      bool     `flag:"quiet"`
	Zone                string   `flag:"zone"`
	Region              string   `flag:"region"`
}

// DefaultPath is $HOME/.gcli/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gcli", "config.yaml"), nil
}

// Init points v at the config file, wires environment overrides and reads
// the file when it exists. It returns the file path in use.
func Init(v *viper.Viper, cfgFile string) (string, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	path := cfgFile
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", err
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, p := range properties {
		if p.Default != "" {
			v.SetDefault(p.Key(), p.Default)
		}
	}

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return path, err
	}
	return path, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Project:             v.GetString(Project.Key()),
		Account:             v.GetString(Account.Key()),
		CredentialFile:      v.GetString(CredentialFile.Key()),
		CredentialedDomains: splitList(v.GetString(CredentialedDomains.Key())),
		Verbosity:           v.GetString(Verbosity.Key()),
		DisablePrompts:      v.GetBool(DisablePrompts.Key()),
		Zone:                v.GetString(Zone.Key()),
		Region:              v.GetString(Region.Key()),
	}
	if cfg.Verbosity == "" {
		cfg.Verbosity = Verbosity.Default
	}

	if err := validator.New().Check(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default implements scope.Defaults with compute/zone and compute/region.
func (c *Config) Default(kind scope.Kind) (string, bool) {
	switch kind {
	case scope.Zone:
		return c.Zone, c.Zone != ""
	case scope.Region:
		return c.Region, c.Region != ""
	default:
		return "", false
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
