package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{ timeout bool }

func (e *timeoutError) Error() string   { return "net error" }
func (e *timeoutError) Timeout() bool   { return e.timeout }
func (e *timeoutError) Temporary() bool { return e.timeout }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"wrapped pg error", fmt.Errorf("query: %w", &pgconn.PgError{Code: "40001"}), true},
		{"net timeout", &timeoutError{timeout: true}, true},
		{"net non-timeout", &timeoutError{timeout: false}, false},
		{"eof", io.EOF, true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableError(tc.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := RetryConfig{
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		JitterRange: 0,
	}

	assert.Equal(t, 100*time.Millisecond, calculateBackoff(0, cfg))
	assert.Equal(t, 200*time.Millisecond, calculateBackoff(1, cfg))
	assert.Equal(t, 400*time.Millisecond, calculateBackoff(2, cfg))

	// capped at MaxDelay for large attempts
	assert.Equal(t, 2*time.Second, calculateBackoff(10, cfg))
}

func TestCalculateBackoffJitterBounds(t *testing.T) {
	cfg := RetryConfig{
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		JitterRange: 0.1,
	}

	for i := 0; i < 50; i++ {
		d := calculateBackoff(1, cfg)
		assert.GreaterOrEqual(t, d, 200*time.Millisecond)
		assert.LessOrEqual(t, d, 220*time.Millisecond)
	}
}

func TestRetryWithBackoffSucceedsAfterTransientFailures(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	attempts := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	permanent := &pgconn.PgError{Code: "23505"}
	attempts := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		attempts++
		return permanent
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, error(permanent))
}

func TestRetryWithBackoffExhaustsBudget(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	attempts := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		attempts++
		return io.EOF
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.ErrorIs(t, err, io.EOF)
}

func TestRetryWithBackoffHonorsContext(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 5, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second}

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- RetryWithBackoff(ctx, cfg, func() error {
			attempts++
			return io.EOF
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("retry loop did not stop after cancellation")
	}
}
