package resource

import (
	"reflect"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

// Patch is an ordered set of top-level field assignments.
type Patch struct {
	keys   []string
	values map[string]any
}

// Set records value for field. Setting the same field twice keeps the
// last value.
func (p *Patch) Set(field string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[field]; !ok {
		p.keys = append(p.keys, field)
	}
	p.values[field] = value
}

// Empty reports whether no field was set.
func (p *Patch) Empty() bool {
	return len(p.keys) == 0
}

// Apply writes the patch into a JSON document.
func (p *Patch) Apply(doc []byte) ([]byte, error) {
	out := append([]byte(nil), doc...)
	for _, k := range p.keys {
		var err error
		out, err = sjson.SetBytes(out, k, p.values[k])
		if err != nil {
			return nil, apperrors.Tool("could not set %s: %v", k, err)
		}
	}
	return out, nil
}

// ChangedFields lists the top-level fields whose values differ between
// two JSON documents, in ascending order.
func ChangedFields(before, after []byte) []string {
	seen := make(map[string]bool)
	var changed []string
	compare := func(doc, other []byte) {
		gjson.ParseBytes(doc).ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if seen[k] {
				return true
			}
			seen[k] = true
			o := gjson.GetBytes(other, gjson.Escape(k))
			if !o.Exists() || !reflect.DeepEqual(value.Value(), o.Value()) {
				changed = append(changed, k)
			}
			return true
		})
	}
	compare(before, after)
	compare(after, before)
	sort.Strings(changed)
	return changed
}

// CheckEditable verifies that a partial update of spec touches only its
// editable fields.
func CheckEditable(spec *Spec, changed []string) error {
	if !spec.SupportsUpdate() {
		return apperrors.Tool("%s does not support updates", spec.Name)
	}
	if len(changed) == 0 {
		return apperrors.Tool("At least one property must be modified.")
	}
	allowed := make(map[string]bool, len(spec.Editable))
	for _, f := range spec.Editable {
		allowed[f] = true
	}
	var rejected []string
	for _, f := range changed {
		if !allowed[f] {
			rejected = append(rejected, f)
		}
	}
	if len(rejected) > 0 {
		return apperrors.Tool("the following fields of %s cannot be modified: %s",
			spec.Name, strings.Join(rejected, ", "))
	}
	return nil
}
