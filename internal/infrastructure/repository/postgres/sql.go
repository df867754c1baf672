package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isConnectionError reports failures after which the connection cannot be trusted.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if crerr.IsAny(err,
		driver.ErrBadConn,
		sql.ErrConnDone,
		io.EOF,
		io.ErrUnexpectedEOF,
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.EPIPE,
	) {
		return true
	}

	var pqErr *pq.Error
	if crerr.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "08":
			return true
		case pqErr.Code == "57P01", pqErr.Code == "57P02", pqErr.Code == "57P03":
			return true
		}
		return false
	}

	var netErr net.Error
	return crerr.As(err, &netErr)
}

// storeError wraps err with a description and flags connection failures as
// usecase.ErrStoreUnavailable. Context errors pass through unflagged.
func storeError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%s: %w: %w", msg, usecase.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	out := value.String
	return &out
}

func nullIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}
