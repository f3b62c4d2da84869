package db

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-sh/inkwell/pkg/store"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"stale version", store.ErrStaleVersion, true},
		{"wrapped stale version", errors.Join(errors.New("update blog"), store.ErrStaleVersion), true},
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"deadlock", &pq.Error{Code: "40P01"}, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"not found", store.ErrNotFound, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}

func TestWithRetrySucceedsAfterConflict(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 3, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return store.ErrStaleVersion
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 2, func(ctx context.Context) error {
		calls++
		return store.ErrStaleVersion
	})

	assert.ErrorIs(t, err, store.ErrStaleVersion)
	assert.Equal(t, 2, calls)
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := WithRetry(context.Background(), 5, func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, 3, func(ctx context.Context) error {
		return store.ErrStaleVersion
	})

	assert.ErrorIs(t, err, context.Canceled)
}
