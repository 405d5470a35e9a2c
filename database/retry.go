package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// RetryConfig controls the backoff behavior for transient database failures
type RetryConfig struct {
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	JitterRange float64 // fraction of the delay, 0.1 = up to 10% extra
}

// DefaultRetryConfig returns retry settings suitable for request handling
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		JitterRange: 0.1,
	}
}

// Transient SQLSTATE classes per the PostgreSQL documentation.
// Class 08 = connection exceptions, class 40 = transaction rollback
// (serialization failures, deadlocks), class 53 = insufficient resources,
// class 57 = operator intervention (admin shutdown, crash recovery).
var retryableSQLStates = map[string]bool{
	"08000": true, "08003": true, "08006": true, "08001": true, "08004": true,
	"40001": true, "40P01": true,
	"53000": true, "53100": true, "53200": true, "53300": true,
	"57P01": true, "57P02": true, "57P03": true,
}

// isRetryableError reports whether the error is transient and worth retrying
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is the caller's decision, never retried
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return retryableSQLStates[pgErr.Code]
	}

	var driverErr pgdriver.Error
	if errors.As(err, &driverErr) {
		return retryableSQLStates[driverErr.Field('C')]
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	// Connection dropped mid-response
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// calculateBackoff returns the delay before the given attempt with jitter applied
func calculateBackoff(attempt int, cfg RetryConfig) time.Duration {
	delay := time.Duration(float64(cfg.BaseDelay) * math.Pow(2, float64(attempt)))
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	if cfg.JitterRange > 0 {
		jitter := time.Duration(rand.Float64() * cfg.JitterRange * float64(delay))
		delay += jitter
	}

	return delay
}

// RetryWithBackoff runs operation, retrying transient failures with
// exponential backoff until the config's retry budget is exhausted.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(attempt-1, cfg)):
			}
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		if !isRetryableError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", cfg.MaxRetries, lastErr)
}

// WithRetry runs operation with the default retry configuration
func WithRetry(ctx context.Context, operation func() error) error {
	return RetryWithBackoff(ctx, DefaultRetryConfig(), operation)
}
