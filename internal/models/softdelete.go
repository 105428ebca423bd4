// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Timestamps carries the lifecycle fields shared by every persisted entity.
// DeletedAt is nil while the row is alive. Soft deletion sets it once; the
// row then counts as absent for every standard lookup, but keeps occupying
// its slug and name so neither is ever reused.
type Timestamps struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Deleted reports whether the entity has been soft-deleted.
func (t *Timestamps) Deleted() bool {
	return t.DeletedAt != nil
}
