package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const zoneURL = "https://compute.googleapis.com/compute/v1/projects/my-project/zones/us-central1-a"

func TestPathTransforms(t *testing.T) {
	instanceURL := zoneURL + "/instances/web-1"
	gatewayURL := "https://compute.googleapis.com/compute/v1/projects/my-project/global/gateways/default-internet-gateway"

	tests := []struct {
		name      string
		transform Transform
		in        any
		want      string
	}{
		{name: "name of url", transform: Name, in: instanceURL, want: "web-1"},
		{name: "name of bare", transform: Name, in: "web-1", want: "web-1"},
		{name: "name of absent", transform: Name, in: nil, want: ""},
		{name: "name of number", transform: Name, in: float64(3), want: "3"},
		{name: "scoped zonal", transform: ScopedSuffix, in: instanceURL, want: "zones/us-central1-a/instances/web-1"},
		{name: "scoped global", transform: ScopedSuffix, in: gatewayURL, want: "gateways/default-internet-gateway"},
		{name: "scoped unknown", transform: ScopedSuffix, in: "plain", want: "plain"},
		{name: "scoped absent", transform: ScopedSuffix, in: nil, want: ""},
		{name: "project suffix", transform: ProjectSuffix, in: instanceURL, want: "my-project/zones/us-central1-a/instances/web-1"},
		{name: "project suffix absent", transform: ProjectSuffix, in: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transform(tt.in))
		})
	}
}

func TestCommaList(t *testing.T) {
	t.Run("joins", func(t *testing.T) {
		assert.Equal(t, "ON, OFF", CommaList("")([]any{"ON", "OFF"}))
	})
	t.Run("absent renders default", func(t *testing.T) {
		assert.Equal(t, "-", CommaList("-")(nil))
	})
	t.Run("empty renders default", func(t *testing.T) {
		assert.Equal(t, "", CommaList("")([]any{}))
	})
	t.Run("scalar renders default", func(t *testing.T) {
		assert.Equal(t, "none", CommaList("none")("x"))
	})
}

func TestMemoryGB(t *testing.T) {
	assert.Equal(t, " 3.75", MemoryGB(float64(3840)))
	assert.Equal(t, "13.00", MemoryGB("13312"))
	assert.Equal(t, "", MemoryGB(nil))
	assert.Equal(t, "", MemoryGB(float64(0)))
}

func TestApplyTransformUnbounded(t *testing.T) {
	r := Record{"zones": []any{zoneURL, zoneURL[:len(zoneURL)-1] + "b"}}
	sel := MustCompile("zones[]")
	v, ok := sel.Select(r)
	assert.Equal(t, "us-central1-a,us-central1-b", applyTransform(sel, Name, v, ok))

	v, ok = sel.Select(Record{})
	assert.Equal(t, "", applyTransform(sel, Name, v, ok))
}
