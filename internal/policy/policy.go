// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package policy decides whether an acting principal may perform a given
// operation. Reads are open to everyone including anonymous callers;
// creates require authentication; mutating or deleting a specific post is
// reserved for its author.
package policy

import "inkwell/internal/models"

// CanCreate reports whether the actor may create posts or comments.
// Any authenticated, active account qualifies.
func CanCreate(actor *models.User) bool {
	return actor != nil && actor.IsActive
}

// CanMutate reports whether the actor may partially update the post.
func CanMutate(actor *models.User, post *models.Post) bool {
	return CanCreate(actor) && actor.IsAuthor(post)
}

// CanDelete reports whether the actor may soft-delete the post.
// Deletion follows the same author-only rule as mutation.
func CanDelete(actor *models.User, post *models.Post) bool {
	return CanMutate(actor, post)
}

// CanReadDraft reports whether the actor may retrieve a draft post by
// direct slug lookup. Published posts are visible to everyone; a draft is
// visible only to its own author. The public feed stays status-gated
// regardless of identity.
func CanReadDraft(actor *models.User, post *models.Post) bool {
	return actor.IsAuthor(post)
}
