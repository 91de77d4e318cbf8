package scope

import (
	"fmt"
	"strings"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

// ComputeBaseURL prefixes every Compute Engine v1 self link.
const ComputeBaseURL = "https://compute.googleapis.com/compute/v1/"

// Kind is the scope attribute of a resource type.
type Kind string

const (
	Global Kind = ""
	Zone   Kind = "zone"
	Region Kind = "region"
)

// Flag returns the command line flag that sets this scope.
func (k Kind) Flag() string {
	if k == Global {
		return "--global"
	}
	return "--" + string(k)
}

func (k Kind) collection() string {
	switch k {
	case Zone:
		return "zones"
	case Region:
		return "regions"
	default:
		return "global"
	}
}

// State tracks how far a Reference has been resolved.
type State int

const (
	Unscoped State = iota
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Unscoped:
		return "unscoped"
	case Resolving:
		return "resolving"
	default:
		return "resolved"
	}
}

// Reference names one Compute Engine resource. A zonal or regional
// reference starts Unscoped when the user gave only a name and becomes
// Resolved once its project and scope are known. Requests may only be
// built from Resolved references.
type Reference struct {
	ResourceType string
	Project      string
	Name         string
	Scope        Kind
	ScopeValue   string

	state State
}

// ParseReference accepts a bare name, a "projects/P/zones/Z/TYPE/NAME"
// path or a full self link. For paths and links the collection must match
// resourceType and kind.
func ParseReference(value, resourceType string, kind Kind) (*Reference, error) {
	if value == "" {
		return nil, apperrors.Tool("Resource name for %s must not be empty.", resourceType)
	}
	ref := &Reference{ResourceType: resourceType, Scope: kind}

	i := strings.Index(value, "projects/")
	if i < 0 {
		if strings.Contains(value, "/") {
			return nil, apperrors.Tool("Invalid %s reference [%s].", singular(resourceType), value)
		}
		ref.Name = value
		return ref, nil
	}
	if i > 0 && !strings.HasPrefix(value, "https://") && !strings.HasPrefix(value, "http://") {
		return nil, apperrors.Tool("Invalid %s reference [%s].", singular(resourceType), value)
	}

	parts := strings.Split(strings.TrimSuffix(value[i:], "/"), "/")
	// projects/P/global/TYPE/NAME or projects/P/zones/Z/TYPE/NAME
	want := 6
	if kind == Global {
		want = 5
	}
	if len(parts) != want || parts[1] == "" {
		return nil, apperrors.Tool("Invalid %s reference [%s].", singular(resourceType), value)
	}
	ref.Project = parts[1]
	rest := parts[2:]
	if rest[0] != kind.collection() {
		return nil, apperrors.Tool("Expected a %s resource in [%s].", scopeDescription(kind), value)
	}
	if kind != Global {
		ref.ScopeValue = rest[1]
		rest = rest[2:]
	} else {
		rest = rest[1:]
	}
	if rest[0] != resourceType {
		return nil, apperrors.Tool("Expected a reference to %s, got [%s].", resourceType, value)
	}
	ref.Name = rest[1]
	if ref.Name == "" || (kind != Global && ref.ScopeValue == "") {
		return nil, apperrors.Tool("Invalid %s reference [%s].", singular(resourceType), value)
	}
	return ref, nil
}

// State reports the resolution state.
func (r *Reference) State() State {
	return r.state
}

// Resolved reports whether the reference may be used to build a request.
func (r *Reference) Resolved() bool {
	return r.state == Resolved
}

// Zone returns the zone of a zonal reference.
func (r *Reference) Zone() string {
	if r.Scope != Zone {
		return ""
	}
	return r.ScopeValue
}

// Region returns the region of a regional reference, or the region a
// zonal reference's zone belongs to.
func (r *Reference) Region() string {
	switch r.Scope {
	case Region:
		return r.ScopeValue
	case Zone:
		return ZoneRegion(r.ScopeValue)
	default:
		return ""
	}
}

// Collection is the dotted collection name, for example
// "compute.instances".
func (r *Reference) Collection() string {
	return "compute." + r.ResourceType
}

// RelativePath is the self link without the API base URL.
func (r *Reference) RelativePath() string {
	var b strings.Builder
	b.WriteString("projects/")
	b.WriteString(r.Project)
	b.WriteString("/")
	b.WriteString(r.Scope.collection())
	if r.Scope != Global {
		b.WriteString("/")
		b.WriteString(r.ScopeValue)
	}
	b.WriteString("/")
	b.WriteString(r.ResourceType)
	b.WriteString("/")
	b.WriteString(r.Name)
	return b.String()
}

// SelfLink is the full resource URL.
func (r *Reference) SelfLink() string {
	return ComputeBaseURL + r.RelativePath()
}

func (r *Reference) String() string {
	if !r.Resolved() {
		return fmt.Sprintf("%s (%s)", r.Name, r.state)
	}
	return r.RelativePath()
}

// RequireResolved fails for references that are not yet Resolved.
func RequireResolved(refs ...*Reference) error {
	for _, r := range refs {
		if r == nil || !r.Resolved() {
			name := "<nil>"
			if r != nil {
				name = r.Name
			}
			return apperrors.Config(fmt.Sprintf("reference [%s] used before its scope was resolved", name), nil)
		}
	}
	return nil
}

// ZoneRegion strips the zone suffix: "us-central1-a" is in "us-central1".
func ZoneRegion(zone string) string {
	if i := strings.LastIndex(zone, "-"); i > 0 {
		return zone[:i]
	}
	return zone
}

// NameOf returns the last path segment of a name or URL, the way scope
// flags accept either "us-central1-a" or a zone self link.
func NameOf(value string) string {
	return value[strings.LastIndex(value, "/")+1:]
}

func scopeDescription(kind Kind) string {
	switch kind {
	case Zone:
		return "zonal"
	case Region:
		return "regional"
	default:
		return "global"
	}
}

func singular(resourceType string) string {
	return strings.TrimSuffix(FriendlyName(resourceType), "s")
}

// FriendlyName turns a camel case resource type into words:
// "targetInstances" becomes "target instances".
func FriendlyName(resourceType string) string {
	var b strings.Builder
	for i, c := range resourceType {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(c + ('a' - 'A'))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
