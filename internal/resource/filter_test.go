package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

func TestParseFilters(t *testing.T) {
	spec := mustSpec(t, "instances")

	tests := []struct {
		name    string
		exprs   []string
		wantErr bool
	}{
		{name: "none", exprs: nil},
		{name: "valid", exprs: []string{"zone=us-*", "status=RUNNING"}},
		{name: "indexed field", exprs: []string{"networkInterfaces[0].networkIP=10.*"}},
		{name: "missing equals", exprs: []string{"zone"}, wantErr: true},
		{name: "empty field", exprs: []string{"=x"}, wantErr: true},
		{name: "unknown field", exprs: []string{"colour=red"}, wantErr: true},
		{name: "bad glob", exprs: []string{"name=[a"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters, err := ParseFilters(spec, tt.exprs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFilters() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.True(t, errors.Is(err, apperrors.ErrTool))
				return
			}
			assert.Len(t, filters, len(tt.exprs))
		})
	}
}

func TestFilterRecords(t *testing.T) {
	spec := mustSpec(t, "instances")
	records := []Record{
		decode(t, `{"name": "web-1", "zone": "`+zoneURL+`", "status": "RUNNING", "disks": [{"source": "a/boot-1"}]}`),
		decode(t, `{"name": "web-2", "zone": "https://x/projects/p/zones/europe-west1-b", "status": "RUNNING"}`),
		decode(t, `{"name": "db-1", "zone": "`+zoneURL+`", "status": "TERMINATED", "disks": [{"source": "a/data"}, {"source": "a/boot-2"}]}`),
	}

	names := func(rs []Record) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r["name"].(string))
		}
		return out
	}

	tests := []struct {
		name  string
		exprs []string
		want  []string
	}{
		{name: "no filters", want: []string{"web-1", "web-2", "db-1"}},
		{name: "transformed zone", exprs: []string{"zone=us-*"}, want: []string{"web-1", "db-1"}},
		{name: "conjunction", exprs: []string{"zone=us-*", "status=RUNNING"}, want: []string{"web-1"}},
		{name: "any element", exprs: []string{"disks[].source=boot-*"}, want: []string{"web-1", "db-1"}},
		{name: "absent matches empty pattern", exprs: []string{"disks[0].source="}, want: []string{"web-2"}},
		{name: "nothing", exprs: []string{"name=zzz"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters, err := ParseFilters(spec, tt.exprs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(FilterRecords(spec, records, filters)))
		})
	}
}
