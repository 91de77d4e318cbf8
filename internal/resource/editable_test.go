package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

func TestPatchApply(t *testing.T) {
	var p Patch
	assert.True(t, p.Empty())

	p.Set("description", "first")
	p.Set("timeoutSec", 30)
	p.Set("description", "second")
	assert.False(t, p.Empty())

	out, err := p.Apply([]byte(`{"name":"bs-1","timeoutSec":10}`))
	require.NoError(t, err)
	assert.Equal(t, "second", gjson.GetBytes(out, "description").String())
	assert.Equal(t, int64(30), gjson.GetBytes(out, "timeoutSec").Int())
	assert.Equal(t, "bs-1", gjson.GetBytes(out, "name").String())
}

func TestChangedFields(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []string
	}{
		{name: "identical", before: `{"a":1,"b":[1,2]}`, after: `{"b":[1,2],"a":1}`, want: nil},
		{name: "whitespace only", before: `{"a": {"x": 1}}`, after: `{"a":{"x":1}}`, want: nil},
		{name: "modified", before: `{"a":1,"b":"x"}`, after: `{"a":2,"b":"x"}`, want: []string{"a"}},
		{name: "added and removed", before: `{"a":1,"c":3}`, after: `{"a":1,"b":2}`, want: []string{"b", "c"}},
		{name: "nested change is top level", before: `{"backends":[{"group":"g1"}]}`, after: `{"backends":[{"group":"g2"}]}`, want: []string{"backends"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangedFields([]byte(tt.before), []byte(tt.after)))
		})
	}
}

func TestCheckEditable(t *testing.T) {
	backend := mustSpec(t, "backendServices")
	proxy := mustSpec(t, "targetHttpProxies")
	instance := mustSpec(t, "instances")

	tests := []struct {
		name    string
		spec    *Spec
		changed []string
		wantErr string
	}{
		{name: "allowed", spec: backend, changed: []string{"description", "timeoutSec"}},
		{name: "nothing changed", spec: backend, changed: nil, wantErr: "At least one property must be modified."},
		{name: "not editable", spec: backend, changed: []string{"description", "selfLink"}, wantErr: "selfLink"},
		{name: "empty editable set", spec: proxy, changed: []string{"urlMap"}, wantErr: "urlMap"},
		{name: "no update support", spec: instance, changed: []string{"description"}, wantErr: "does not support updates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEditable(tt.spec, tt.changed)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrTool))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
