package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	assert.False(t, IsSerializationFailure(nil))
	assert.False(t, IsSerializationFailure(errors.New("boom")))

	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))

	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))

	wrapped := fmt.Errorf("tx failed: %w", &pgconn.PgError{Code: "40001"})
	assert.True(t, IsSerializationFailure(wrapped))

	// driver-agnostic string fallback
	assert.True(t, IsSerializationFailure(errors.New("ERROR: could not serialize access (SQLSTATE 40001)")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "40001"}))
}

func TestRetrySerializable(t *testing.T) {
	serErr := &pgconn.PgError{Code: "40001"}

	t.Run("succeeds without retry", func(t *testing.T) {
		calls := 0
		err := RetrySerializable(2, func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries only serialization conflicts", func(t *testing.T) {
		calls := 0
		err := RetrySerializable(2, func() error {
			calls++
			if calls < 3 {
				return serErr
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := RetrySerializable(2, func() error {
			calls++
			return serErr
		})
		assert.Equal(t, serErr, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("other errors are never retried", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		err := RetrySerializable(5, func() error {
			calls++
			return boom
		})
		assert.Equal(t, boom, err)
		assert.Equal(t, 1, calls)
	})
}
