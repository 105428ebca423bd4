// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Comment is a reader's note on a post. Comments are create/read only;
// there is no update or delete path exposed for them. Soft-deleting a post
// soft-deletes its comments in the same transaction.
type Comment struct {
	ID       uuid.UUID `json:"id"`
	PostID   uuid.UUID `json:"-"`
	AuthorID uuid.UUID `json:"-"`
	Author   *User     `json:"author,omitempty"`
	Body     string    `json:"body"`
	Timestamps
}
