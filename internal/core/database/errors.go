package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies persistence failures so callers can branch without
// inspecting driver errors.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindConstraint Kind = "constraint"
	KindConnection Kind = "connection"
	KindCanceled   Kind = "canceled"
	KindUnknown    Kind = "unknown"
)

// ErrNotFound is the cause recorded for lookups and updates that matched no row.
var ErrNotFound = errors.New("record not found")

// Error is returned by every store operation that fails.
type Error struct {
	// Op names the failed operation, e.g. "orders.create".
	Op string
	// Kind is the failure category.
	Kind Kind
	// Err is the underlying driver error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err and tags it with op. Errors that are already
// classified keep their kind.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return &Error{Op: op, Kind: dbErr.Kind, Err: err}
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

// NotFound builds a KindNotFound error for op.
func NotFound(op string) error {
	return &Error{Op: op, Kind: KindNotFound, Err: ErrNotFound}
}

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Kind
	}
	if err == nil {
		return ""
	}
	return classify(err)
}

// IsNotFound reports whether err is a KindNotFound failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func classify(err error) Kind {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return KindConstraint
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01":
			return KindConnection
		case pgErr.Code == "57014":
			return KindCanceled
		}
		return KindUnknown
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, pgx.ErrTxClosed) {
		return KindConnection
	}

	return KindUnknown
}
