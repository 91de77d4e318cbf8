package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pratik-mahalle/gcli/internal/testutil"
)

func mustSpec(t *testing.T, name string) *Spec {
	t.Helper()
	spec, err := testRegistry(t).Get(name)
	require.NoError(t, err)
	return spec
}

func TestProjectInstances(t *testing.T) {
	spec := mustSpec(t, "instances")
	records := []Record{
		decode(t, `{
			"name": "web-1",
			"zone": "`+zoneURL+`",
			"machineType": "`+zoneURL+`/machineTypes/n1-standard-1",
			"networkInterfaces": [{"networkIP": "10.0.0.2", "accessConfigs": [{"natIP": "34.1.2.3"}]}],
			"status": "RUNNING"
		}`),
		decode(t, `{"name": "web-2", "networkInterfaces": [], "status": "TERMINATED"}`),
	}

	assert.Equal(t, []string{"NAME", "ZONE", "MACHINE_TYPE", "INTERNAL_IP", "EXTERNAL_IP", "STATUS"}, Headers(spec))
	assert.Equal(t, [][]string{
		{"web-1", "us-central1-a", "n1-standard-1", "10.0.0.2", "34.1.2.3", "RUNNING"},
		{"web-2", "", "", "", "", "TERMINATED"},
	}, Project(spec, records))
}

func TestProjectBackendServiceWithoutBackends(t *testing.T) {
	spec := mustSpec(t, "backendServices")
	row := ProjectRow(spec, decode(t, `{"name": "bs-1"}`))
	assert.Equal(t, []string{"bs-1", ""}, row)
}

func TestProjectRecoversPanickingCell(t *testing.T) {
	log, buf := testutil.NewTestLogger(t, "warning")

	reg, err := NewRegistry(Definition{
		Name:   "widgets",
		Schema: Message("Widget", Field{Name: "name"}),
		Columns: []ColumnDef{
			Col("NAME", Path("name")),
			Col("BROKEN", Func(func(Record) string { panic("boom") })),
			Col("AFTER", Func(func(Record) string { return "ok" })),
		},
	})
	require.NoError(t, err)
	spec, err := reg.Get("widgets")
	require.NoError(t, err)

	rows := NewProjector(log).Project(spec, []Record{{"name": "w"}})
	assert.Equal(t, [][]string{{"w", "", "ok"}}, rows)
	assert.Contains(t, buf.String(), "BROKEN")
	assert.Contains(t, buf.String(), "boom")
}

// jsonValue generates arbitrary decoded JSON values.
func jsonValue(depth int) *rapid.Generator[any] {
	return rapid.Custom(func(t *rapid.T) any {
		kind := rapid.IntRange(0, 6).Draw(t, "kind")
		if depth == 0 && kind >= 5 {
			kind = 0
		}
		switch kind {
		case 0:
			return nil
		case 1:
			return rapid.String().Draw(t, "string")
		case 2:
			return rapid.Float64().Draw(t, "number")
		case 3:
			return rapid.Bool().Draw(t, "bool")
		case 4:
			return rapid.SampledFrom([]string{
				zoneURL, "DONE", "RUNNING", "tcp", "", "projects/p/global/networks/default",
			}).Draw(t, "known")
		case 5:
			n := rapid.IntRange(0, 3).Draw(t, "len")
			out := make([]any, n)
			for i := range out {
				out[i] = jsonValue(depth-1).Draw(t, "elem")
			}
			return out
		default:
			return jsonRecord(depth - 1).Draw(t, "object")
		}
	})
}

var recordKeys = []string{
	"name", "zone", "region", "status", "allowed", "IPProtocol", "ports", "quotas", "metric",
	"usage", "limit", "maintenanceWindows", "beginTime", "endTime", "memoryMb", "selfLink",
	"backends", "group", "nextHopInstance", "nextHopGateway", "nextHopIp", "healthChecks",
	"sourceRanges", "sourceTags", "targetTags", "networkInterfaces", "accessConfigs",
	"networkIP", "natIP", "httpErrorStatusCode", "settings", "tier", "ipAddresses", "ipAddress",
	"error", "errors", "code", "allowedStringValues", "deprecated", "state",
}

func jsonRecord(depth int) *rapid.Generator[Record] {
	return rapid.Custom(func(t *rapid.T) Record {
		r := Record{}
		n := rapid.IntRange(0, 6).Draw(t, "keys")
		for i := 0; i < n; i++ {
			k := rapid.SampledFrom(recordKeys).Draw(t, "key")
			r[k] = jsonValue(depth).Draw(t, "value")
		}
		return r
	})
}

func TestProjectNeverPanicsAndIsIdempotent(t *testing.T) {
	reg := testRegistry(t)
	names := reg.Names()

	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom(names).Draw(t, "type")
		spec, err := reg.Get(name)
		require.NoError(t, err)
		records := rapid.SliceOfN(jsonRecord(2), 0, 4).Draw(t, "records")

		var first [][]string
		require.NotPanics(t, func() { first = Project(spec, records) })
		require.Len(t, first, len(records))
		for _, row := range first {
			require.Len(t, row, len(spec.Columns))
		}
		require.Equal(t, first, Project(spec, records))
	})
}

func TestSelectFields(t *testing.T) {
	spec := mustSpec(t, "instances")
	record := decode(t, `{
		"name": "web-1",
		"zone": "`+zoneURL+`",
		"disks": [{"source": "`+zoneURL+`/disks/d1"}, {"source": "`+zoneURL+`/disks/d2"}]
	}`)

	got, err := SelectFields(spec, record, []string{"zone", "disks[].source", "disks[1].source", "status"})
	require.NoError(t, err)
	assert.Equal(t, []FieldValue{
		{Path: "zone", Value: "us-central1-a"},
		{Path: "disks[].source", Value: "d1,d2"},
		{Path: "disks[1].source", Value: "d2"},
		{Path: "status", Value: ""},
	}, got)
	assert.Equal(t, "zone: us-central1-a", got[0].String())

	_, err = SelectFields(spec, record, []string{"name", "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}
