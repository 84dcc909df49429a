package helper

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SerializableTx runs fn inside one SERIALIZABLE transaction. Seat allocation
// relies on this isolation level instead of explicit row locks: concurrent
// writers are linearized by the store and the loser aborts with SQLSTATE 40001.
func SerializableTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// RetrySerializable re-runs fn after a serialization conflict, up to
// maxRetries extra attempts. Every other error propagates immediately.
func RetrySerializable(maxRetries int, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= maxRetries || !IsSerializationFailure(err) {
			return err
		}
	}
}

func IsSerializationFailure(err error) bool { return hasSQLState(err, "40001") }

func IsUniqueViolation(err error) bool { return hasSQLState(err, "23505") }

func hasSQLState(err error, code string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	// string fallback (compatible with wrapped lib/pq & pgx)
	return strings.Contains(err.Error(), "SQLSTATE "+code)
}
