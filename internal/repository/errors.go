package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate reports a unique-constraint violation at commit time. The
// unique index is the authoritative guard against check-then-insert races,
// so callers must treat this as a domain conflict, not a storage failure.
var ErrDuplicate = errors.New("duplicate key")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
