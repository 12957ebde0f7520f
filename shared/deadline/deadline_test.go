package deadline_test

import (
	"context"
	"errors"
	"stayops/shared/deadline"
	"stayops/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slow(value string, wait time.Duration) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		select {
		case <-time.After(wait):
			return value, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func TestCall(t *testing.T) {
	tests := []struct {
		name    string
		budget  time.Duration
		fn      func(ctx context.Context) (string, error)
		want    string
		wantErr failure.Kind
	}{
		{
			name:   "answers within budget",
			budget: time.Second,
			fn:     slow("ok", 0),
			want:   "ok",
		},
		{
			name:    "budget elapses",
			budget:  10 * time.Millisecond,
			fn:      slow("late", time.Second),
			wantErr: failure.KindUpstreamTimeout,
		},
		{
			name:   "no budget runs inline",
			budget: 0,
			fn:     slow("inline", time.Millisecond),
			want:   "inline",
		},
		{
			name:   "dependency error passes through",
			budget: time.Second,
			fn: func(context.Context) (string, error) {
				return "", errors.New("connection refused")
			},
			wantErr: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := deadline.Call(context.Background(), tt.budget, "directory", tt.fn)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, failure.GetKind(err))
				assert.Empty(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithFallback(t *testing.T) {
	got, degraded, err := deadline.WithFallback(context.Background(), 10*time.Millisecond, "directory", "viewer", slow("admin", time.Second))
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, "viewer", got)

	got, degraded, err = deadline.WithFallback(context.Background(), time.Second, "directory", "viewer", slow("admin", 0))
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, "admin", got)

	_, degraded, err = deadline.WithFallback(context.Background(), time.Second, "directory", "viewer", func(context.Context) (string, error) {
		return "", errors.New("boom")
	})
	assert.Error(t, err)
	assert.False(t, degraded)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, deadline.Millis(300))
}
