package utils

import (
	"context"
	"time"
)

// WithBackoff retries fn up to attempts times with exponential spacing,
// respecting context cancellation between attempts. The last error is
// returned when all attempts fail.
func WithBackoff(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var err error
	delay := base
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
