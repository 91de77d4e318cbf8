package gcp

import (
	"testing"

	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	sqladmin "google.golang.org/api/sqladmin/v1"

	"github.com/pratik-mahalle/gcli/internal/resource"
)

func TestProtoRecordUsesJSONNames(t *testing.T) {
	inst := &computepb.Instance{
		Name:        proto.String("web-1"),
		Id:          proto.Uint64(42),
		Zone:        proto.String("https://compute.googleapis.com/compute/v1/projects/p/zones/us-central1-a"),
		MachineType: proto.String("zones/us-central1-a/machineTypes/n1-standard-1"),
		NetworkInterfaces: []*computepb.NetworkInterface{
			{NetworkIP: proto.String("10.0.0.2")},
		},
	}

	r, err := ProtoRecord(inst)
	require.NoError(t, err)
	assert.Equal(t, "web-1", r["name"])
	assert.Equal(t, "42", r["id"], "uint64 fields are strings on the wire")

	ip, ok := resource.MustCompile("networkInterfaces[0].networkIP").Select(r)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2", ip)
}

func TestProtoRecordEmptyMessage(t *testing.T) {
	r, err := ProtoRecord(&computepb.Zone{})
	require.NoError(t, err)
	assert.NotNil(t, r)
	assert.Empty(t, r)
}

func TestStructRecords(t *testing.T) {
	certs := []*sqladmin.SslCert{
		{CommonName: "client-a", Sha1Fingerprint: "aaa"},
		{CommonName: "client-b", ExpirationTime: "2020-01-01T00:00:00Z"},
	}

	records, err := structRecords(certs)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "client-a", records[0]["commonName"])
	assert.Equal(t, "2020-01-01T00:00:00Z", records[1]["expirationTime"])
	_, present := records[1]["sha1Fingerprint"]
	assert.False(t, present, "empty fields are omitted")
}
