package resource

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	return reg
}

func TestDefaultRegistryNames(t *testing.T) {
	reg := testRegistry(t)
	names := reg.Names()
	assert.True(t, sort.StringsAreSorted(names))
	for _, want := range []string{
		"addresses", "backendServiceGroupHealth", "backendServices", "diskTypes", "disks",
		"firewalls", "forwardingRules", "globalAddresses", "globalForwardingRules",
		"globalOperations", "httpHealthChecks", "images", "instances", "machineTypes",
		"networks", "operations", "projects", "regionOperations", "regions", "routes",
		"snapshots", "targetHttpProxies", "targetInstances", "targetPoolInstanceHealth",
		"targetPools", "urlMaps", "zoneOperations", "zones",
		"sql.backupRuns", "sql.flags", "sql.instances", "sql.operations", "sql.sslCerts",
	} {
		assert.Contains(t, names, want)
	}
}

func TestEverySpecHasSortedUniqueFields(t *testing.T) {
	reg := testRegistry(t)
	for _, name := range reg.Names() {
		t.Run(name, func(t *testing.T) {
			spec, err := reg.Get(name)
			require.NoError(t, err)
			require.NotEmpty(t, spec.Fields)
			assert.True(t, sort.StringsAreSorted(spec.Fields), "fields of %s are not sorted", name)
			for i := 1; i < len(spec.Fields); i++ {
				assert.NotEqual(t, spec.Fields[i-1], spec.Fields[i], "duplicate field in %s", name)
			}
			for _, f := range spec.Fields {
				_, err := Compile(f)
				assert.NoError(t, err, "field %q of %s does not compile", f, name)
			}
		})
	}
}

func TestTransformationsNameRealFields(t *testing.T) {
	reg := testRegistry(t)
	for _, name := range reg.Names() {
		spec, err := reg.Get(name)
		require.NoError(t, err)
		for path := range spec.Transformations {
			assert.True(t, spec.HasField(path), "%s transforms unknown field %q", name, path)
		}
	}
}

func TestEditableSets(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name         string
		wantUpdate   bool
		wantEditable []string
	}{
		{name: "instances", wantUpdate: false},
		{name: "backendServices", wantUpdate: true, wantEditable: []string{"backends", "description", "healthChecks", "port", "portName", "timeoutSec"}},
		{name: "urlMaps", wantUpdate: true, wantEditable: []string{"defaultService", "description", "hostRules", "pathMatchers", "tests"}},
		{name: "targetHttpProxies", wantUpdate: true, wantEditable: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := reg.Get(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdate, spec.SupportsUpdate())
			if tt.wantUpdate {
				assert.Equal(t, tt.wantEditable, spec.Editable)
				for _, f := range spec.Editable {
					assert.True(t, spec.HasField(f), "editable %q is not a field", f)
				}
			}
		})
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.Get("instance")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownResourceType))
	assert.Contains(t, err.Error(), "[instance]")
}

func TestNewRegistryErrors(t *testing.T) {
	point := Message("Point", Field{Name: "x"})
	cyclic := Message("Loop")
	cyclic.Add(Field{Name: "self", Message: cyclic})

	tests := []struct {
		name    string
		defs    []Definition
		wantErr error
	}{
		{
			name:    "duplicate",
			defs:    []Definition{{Name: "points", Schema: point}, {Name: "points", Schema: point}},
			wantErr: apperrors.ErrConfig,
		},
		{
			name:    "missing schema",
			defs:    []Definition{{Name: "points"}},
			wantErr: apperrors.ErrConfig,
		},
		{
			name:    "cyclic schema",
			defs:    []Definition{{Name: "loops", Schema: cyclic}},
			wantErr: apperrors.ErrSchema,
		},
		{
			name: "malformed column path",
			defs: []Definition{{
				Name:    "points",
				Schema:  point,
				Columns: []ColumnDef{Col("X", Path("x[")), Col("Y", Path("y"))},
			}},
			wantErr: apperrors.ErrConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestHasField(t *testing.T) {
	reg := testRegistry(t)
	spec, err := reg.Get("instances")
	require.NoError(t, err)

	assert.True(t, spec.HasField("name"))
	assert.True(t, spec.HasField("networkInterfaces[0].networkIP"))
	assert.True(t, spec.HasField("networkInterfaces[]"))
	assert.True(t, spec.HasField("networkInterfaces"))
	assert.False(t, spec.HasField("networkInterface"))
	assert.False(t, spec.HasField("nam"))
}
