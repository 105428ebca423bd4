// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// CategoryNameMaxLen bounds category names at registration time.
const CategoryNameMaxLen = 100

// Category groups posts under a unique, non-empty name. The slug is derived
// from the name when not supplied explicitly. Deleting a category does not
// delete its posts; their category reference becomes null instead.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Timestamps
}
