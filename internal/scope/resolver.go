package scope

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/pkg/logger"
)

// Defaults supplies configured default scope values, such as the
// compute/zone property.
type Defaults interface {
	Default(kind Kind) (string, bool)
}

// ChoiceFetcher lists the valid values of a scope. prefix, when set,
// limits the list to names starting with it.
type ChoiceFetcher interface {
	ScopeChoices(ctx context.Context, kind Kind, prefix string) ([]string, error)
}

// Prompter asks the user to pick one of options.
type Prompter interface {
	CanPrompt() bool
	PromptChoice(message string, options []string) (int, error)
}

// Resolver turns user supplied names into resolved references. Commands
// share one Resolver and call it explicitly.
type Resolver struct {
	project  string
	defaults Defaults
	fetcher  ChoiceFetcher
	prompter Prompter
	log      *logger.Logger
}

// NewResolver wires a resolver. project is the default project for bare
// names.
func NewResolver(project string, defaults Defaults, fetcher ChoiceFetcher, prompter Prompter, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	if prompter == nil {
		prompter = NonInteractive{}
	}
	return &Resolver{
		project:  project,
		defaults: defaults,
		fetcher:  fetcher,
		prompter: prompter,
		log:      log,
	}
}

// Option adjusts a single resolution call.
type Option func(*options)

type options struct {
	flag   string
	prefix string
}

// WithFlag names the flag mentioned in errors, for callers whose scope
// flag is not the default --zone or --region.
func WithFlag(flag string) Option {
	return func(o *options) { o.flag = flag }
}

// WithPrefixFilter limits the offered choices, for example to the zones
// of one region.
func WithPrefixFilter(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// ZonalReferences resolves names of a zonal resource type. zoneArg is the
// value of --zone and may be empty.
func (r *Resolver) ZonalReferences(ctx context.Context, names []string, zoneArg, resourceType string, opts ...Option) ([]*Reference, error) {
	return r.scopedReferences(ctx, names, Zone, zoneArg, resourceType, opts)
}

// ZonalReference resolves a single zonal name.
func (r *Resolver) ZonalReference(ctx context.Context, name, zoneArg, resourceType string, opts ...Option) (*Reference, error) {
	refs, err := r.ZonalReferences(ctx, []string{name}, zoneArg, resourceType, opts...)
	if err != nil {
		return nil, err
	}
	return refs[0], nil
}

// RegionalReferences resolves names of a regional resource type.
func (r *Resolver) RegionalReferences(ctx context.Context, names []string, regionArg, resourceType string, opts ...Option) ([]*Reference, error) {
	return r.scopedReferences(ctx, names, Region, regionArg, resourceType, opts)
}

// RegionalReference resolves a single regional name.
func (r *Resolver) RegionalReference(ctx context.Context, name, regionArg, resourceType string, opts ...Option) (*Reference, error) {
	refs, err := r.RegionalReferences(ctx, []string{name}, regionArg, resourceType, opts...)
	if err != nil {
		return nil, err
	}
	return refs[0], nil
}

// GlobalReferences resolves names of a global resource type. No prompt
// is ever needed.
func (r *Resolver) GlobalReferences(names []string, resourceType string) ([]*Reference, error) {
	refs := make([]*Reference, 0, len(names))
	for _, name := range names {
		ref, err := ParseReference(name, resourceType, Global)
		if err != nil {
			return nil, err
		}
		if err := r.finish(ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// GlobalReference resolves a single global name.
func (r *Resolver) GlobalReference(name, resourceType string) (*Reference, error) {
	refs, err := r.GlobalReferences([]string{name}, resourceType)
	if err != nil {
		return nil, err
	}
	return refs[0], nil
}

func (r *Resolver) scopedReferences(ctx context.Context, names []string, kind Kind, scopeArg, resourceType string, opts []Option) ([]*Reference, error) {
	o := options{flag: kind.Flag()}
	for _, opt := range opts {
		opt(&o)
	}
	scopeValue := ""
	if scopeArg != "" {
		scopeValue = NameOf(scopeArg)
	}

	refs := make([]*Reference, 0, len(names))
	var ambiguous []*Reference
	for _, name := range names {
		ref, err := ParseReference(name, resourceType, kind)
		if err != nil {
			return nil, err
		}
		if ref.ScopeValue == "" {
			ref.ScopeValue = scopeValue
		}
		if ref.ScopeValue == "" {
			ref.state = Resolving
			ambiguous = append(ambiguous, ref)
		}
		refs = append(refs, ref)
	}

	if len(ambiguous) > 0 {
		if err := r.disambiguate(ctx, ambiguous, kind, resourceType, o); err != nil {
			return nil, err
		}
	}

	for _, ref := range refs {
		if err := r.finish(ref); err != nil {
			return nil, err
		}
	}
	return refs, nil
}

// disambiguate fills in the scope of every ambiguous reference from the
// configured default or, failing that, from one prompt for the batch.
func (r *Resolver) disambiguate(ctx context.Context, ambiguous []*Reference, kind Kind, resourceType string, o options) error {
	if r.defaults != nil {
		if value, ok := r.defaults.Default(kind); ok && value != "" {
			r.log.Debugf("using default %s %s for %d %s", kind, value, len(ambiguous), resourceType)
			for _, ref := range ambiguous {
				ref.ScopeValue = NameOf(value)
			}
			return nil
		}
	}

	if !r.prompter.CanPrompt() {
		return apperrors.CannotPrompt(o.flag)
	}
	if r.fetcher == nil {
		return apperrors.NoScopeChoices(string(kind), o.flag, nil)
	}
	choices, err := r.fetcher.ScopeChoices(ctx, kind, o.prefix)
	if err != nil || len(choices) == 0 {
		return apperrors.NoScopeChoices(string(kind), o.flag, err)
	}

	idx, err := r.prompter.PromptChoice(promptMessage(ambiguous, kind, resourceType), choices)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(choices) {
		return apperrors.CannotPrompt(o.flag)
	}
	for _, ref := range ambiguous {
		ref.ScopeValue = choices[idx]
	}
	return nil
}

func (r *Resolver) finish(ref *Reference) error {
	if ref.Project == "" {
		ref.Project = r.project
	}
	if ref.Project == "" {
		return apperrors.Tool("The required property [project] is not currently set. Use --project or run: gcli config set project PROJECT")
	}
	if ref.Scope != Global && ref.ScopeValue == "" {
		return apperrors.CannotPrompt(ref.Scope.Flag())
	}
	ref.state = Resolved
	return nil
}

func promptMessage(ambiguous []*Reference, kind Kind, resourceType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "For the following %s:\n", FriendlyName(resourceType))
	for _, ref := range ambiguous {
		fmt.Fprintf(&b, " - [%s]\n", ref.Name)
	}
	fmt.Fprintf(&b, "choose a %s:", kind)
	return b.String()
}
