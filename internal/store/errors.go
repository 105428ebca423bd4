// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// conflictRetries bounds how many times optimistic slug/name resolution is
// re-run after losing a uniqueness race at write time.
const conflictRetries = 3

// ErrConflict is returned when a uniqueness constraint rejects a write
// after the optimistic retry budget is exhausted. Handlers translate it
// to HTTP 409.
var ErrConflict = errors.New("store: uniqueness conflict")

// uniqueViolation is the PostgreSQL error code for a violated unique
// constraint.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint rejection,
// i.e. we lost a check-then-act race and the database arbitrated.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
