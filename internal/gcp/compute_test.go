package gcp

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompute(t *testing.T, routes map[string][]string) (*Compute, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{routes: routes}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	waiter := NewWaiter(time.Millisecond, io.Discard)
	return NewCompute("my-project", Credentials{Endpoint: server.URL + "/"}, waiter, nil), fake
}

func TestListHTTPHealthChecks(t *testing.T) {
	c, fake := newTestCompute(t, map[string][]string{
		"GET /projects/my-project/global/httpHealthChecks": {
			`{"items":[{"id":"7","name":"basic-check","port":80,"requestPath":"/"}],"nextPageToken":"p2"}`,
			`{"items":[{"name":"deep-check","host":"example.com","port":8080,"requestPath":"/healthz"}]}`,
		},
	})

	records, err := c.List(context.Background(), "httpHealthChecks")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "basic-check", records[0]["name"])
	assert.Equal(t, "7", records[0]["id"])
	assert.Equal(t, float64(80), records[0]["port"])
	assert.Equal(t, "example.com", records[1]["host"])
	assert.Len(t, fake.requests, 2)
}

func TestListHTTPHealthChecksError(t *testing.T) {
	c, _ := newTestCompute(t, nil)
	_, err := c.List(context.Background(), "httpHealthChecks")
	require.Error(t, err)
}

func TestListUnknownType(t *testing.T) {
	c, _ := newTestCompute(t, nil)
	_, err := c.List(context.Background(), "widgets")
	require.Error(t, err)
}
