// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// TagNameMaxLen bounds tag names.
const TagNameMaxLen = 50

// Tag labels posts. Tags share the shape of categories but live in an
// independent name/slug namespace.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Timestamps
}
