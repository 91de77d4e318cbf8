package gcp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaiter(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name     string
		statuses []bool
		errs     []string
		pollErr  error
		wantErr  string
		wantPoll int
	}{
		{name: "done at once", statuses: []bool{true}, wantPoll: 1},
		{name: "done after polling", statuses: []bool{false, false, true}, wantPoll: 3},
		{name: "operation errors", statuses: []bool{true}, errs: []string{"QUOTA", "DENIED"}, wantErr: "Resetting failed: QUOTA; DENIED", wantPoll: 1},
		{name: "poll error", statuses: []bool{false}, pollErr: boom, wantErr: "boom", wantPoll: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWaiter(time.Millisecond, io.Discard)
			calls := 0
			err := w.Wait(context.Background(), "Resetting", func(context.Context) (bool, []string, error) {
				done := tt.statuses[calls]
				calls++
				if tt.pollErr != nil {
					return false, nil, tt.pollErr
				}
				if done {
					return true, tt.errs, nil
				}
				return false, nil, nil
			})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantPoll, calls)
		})
	}
}

func TestWaiterHonoursCancellation(t *testing.T) {
	w := NewWaiter(time.Hour, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := w.Wait(ctx, "Deleting", func(context.Context) (bool, []string, error) {
		calls++
		cancel()
		return false, nil, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out waiting for Deleting")
	assert.Equal(t, 1, calls)
}

func TestWaiterWritesProgress(t *testing.T) {
	var out bytes.Buffer
	w := NewWaiter(time.Millisecond, &out)
	polls := 0
	err := w.Wait(context.Background(), "Restarting", func(context.Context) (bool, []string, error) {
		polls++
		return polls > 2, nil, nil
	})
	require.NoError(t, err)
	assert.NotZero(t, out.Len())
}
