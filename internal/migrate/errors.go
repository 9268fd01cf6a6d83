package migrate

import (
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a migration failure. None of these are recovered by
// the runner; the first one aborts the sequence and is surfaced to the
// operator.
type Kind int

const (
	KindUnknown Kind = iota
	KindSchemaConflict // target table already exists
	KindPrivilege      // session lacks table-creation rights
	KindConnectivity   // database unreachable
	KindSyntax         // malformed DDL
)

func (k Kind) String() string {
	switch k {
	case KindSchemaConflict:
		return "schema conflict"
	case KindPrivilege:
		return "privilege"
	case KindConnectivity:
		return "connectivity"
	case KindSyntax:
		return "syntax"
	default:
		return "unknown"
	}
}

// Error wraps a failure while applying a single migration. Version is
// empty when the failure happened outside any particular migration,
// such as while reading the bookkeeping table.
type Error struct {
	Kind    Kind
	Version string
	Err     error
}

func (e *Error) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("migrate: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("migrate %s: %s: %v", e.Version, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SQLSTATE codes mapped onto error kinds.
const (
	codeDuplicateTable        = "42P07"
	codeInsufficientPrivilege = "42501"
	codeSyntaxError           = "42601"
)

// classify wraps err in an *Error whose Kind is derived from the
// underlying Postgres or network error.
func classify(version string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindUnknown

	var pgErr *pgconn.PgError
	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case codeDuplicateTable:
			kind = KindSchemaConflict
		case codeInsufficientPrivilege:
			kind = KindPrivilege
		case codeSyntaxError:
			kind = KindSyntax
		}
	case errors.As(err, &connErr), errors.As(err, &netErr):
		kind = KindConnectivity
	}

	return &Error{Kind: kind, Version: version, Err: err}
}
