package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

// Property is one settable configuration value, named SECTION/NAME.
type Property struct {
	Section     string
	Name        string
	Description string
	Default     string
	// Choices limits the accepted values when non-empty.
	Choices []string
	Bool    bool
}

// Properties known to gcli.
var (
	Project = Property{Section: "core", Name: "project",
		Description: "Default project for commands that need one."}
	Account = Property{Section: "core", Name: "account",
		Description: "Account reported to git as the username."}
	CredentialFile = Property{Section: "core", Name: "credential_file",
		Description: "Service account key file; Application Default Credentials when unset."}
	CredentialedDomains = Property{Section: "core", Name: "credentialed_hosted_repo_domains",
		Description: "Comma separated extra git hosts the credential helper answers for."}
	Verbosity = Property{Section: "core", Name: "verbosity", Default: "warning",
		Description: "Log level.",
		Choices:     []string{"debug", "info", "warning", "error", "critical", "none"}}
	DisablePrompts = Property{Section: "core", Name: "disable_prompts", Bool: true,
		Description: "Never prompt; fail with a hint instead."}
	Zone = Property{Section: "compute", Name: "zone",
		Description: "Default zone for zonal resources."}
	Region = Property{Section: "compute", Name: "region",
		Description: "Default region for regional resources."}
)

var properties = []Property{
	Project, Account, CredentialFile, CredentialedDomains, Verbosity, DisablePrompts, Zone, Region,
}

// Key is the viper key, SECTION.NAME.
func (p Property) Key() string {
	return p.Section + "." + p.Name
}

func (p Property) String() string {
	return p.Section + "/" + p.Name
}

// Check rejects values the property cannot hold.
func (p Property) Check(value string) error {
	if p.Bool {
		if _, err := strconv.ParseBool(value); err != nil {
			return apperrors.Tool("[%s] must be true or false, got [%s]", p, value)
		}
	}
	if len(p.Choices) > 0 && !lo.Contains(p.Choices, value) {
		return apperrors.Tool("[%s] must be one of [%s], got [%s]", p, strings.Join(p.Choices, ", "), value)
	}
	return nil
}

// Lookup resolves SECTION/NAME, or a bare NAME in the core section.
func Lookup(name string) (Property, error) {
	section, prop := "core", name
	if i := strings.Index(name, "/"); i >= 0 {
		section, prop = name[:i], name[i+1:]
	}
	for _, p := range properties {
		if p.Section == section && p.Name == prop {
			return p, nil
		}
	}
	return Property{}, apperrors.Tool("Invalid property [%s]", name)
}

// All returns every property ordered by section and name.
func All() []Property {
	out := append([]Property{}, properties...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Describe is a one-line summary used by help output.
func (p Property) Describe() string {
	if p.Default == "" {
		return fmt.Sprintf("%s: %s", p, p.Description)
	}
	return fmt.Sprintf("%s: %s (default %s)", p, p.Description, p.Default)
}
