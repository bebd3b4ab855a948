package retrier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetrier_Do(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		r := New()
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("success after retries", func(t *testing.T) {
		r := New(WithAttempts(4), WithBackoff(1*time.Millisecond))
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("fail")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("fail after all attempts", func(t *testing.T) {
		r := New(WithAttempts(3), WithBackoff(1*time.Millisecond))
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return errors.New("fail")
		})
		assert.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("context cancellation", func(t *testing.T) {
		r := New(WithAttempts(5), WithBackoff(100*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())

		attempts := 0
		err := r.Do(ctx, func(ctx context.Context) error {
			attempts++
			if attempts == 1 {
				cancel()
			}
			return errors.New("fail")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}

func TestRetrier_DoWithData(t *testing.T) {
	t.Run("returns the value", func(t *testing.T) {
		r := New(WithAttempts(3), WithBackoff(1*time.Millisecond))
		attempts := 0
		got, err := DoWithData(context.Background(), r, func(ctx context.Context) (int, error) {
			attempts++
			if attempts < 2 {
				return 0, errors.New("fail")
			}
			return 42, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("returns the last error", func(t *testing.T) {
		r := New(WithAttempts(2), WithBackoff(1*time.Millisecond))
		wantErr := errors.New("boom")
		_, err := DoWithData(context.Background(), r, func(ctx context.Context) (string, error) {
			return "", wantErr
		})
		assert.ErrorIs(t, err, wantErr)
	})
}
