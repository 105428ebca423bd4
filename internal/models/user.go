// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Field length limits enforced at registration.
const (
	EmailMaxLen     = 150
	FirstNameMaxLen = 50
	LastNameMaxLen  = 50
)

// User represents a registered account. Passwords are stored as bcrypt
// hashes and never serialized. Avatar is an optional URL; there is no
// upload pipeline, callers supply it as-is.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	Avatar       *string   `json:"avatar"`
	TOTPSecret   *string   `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	Timestamps
}

// IsAuthor reports whether the user wrote the given post.
func (u *User) IsAuthor(p *Post) bool {
	return u != nil && p != nil && u.ID == p.AuthorID
}

// Needs2FASetup returns true if the user has not completed TOTP enrollment.
// Enrollment is optional; once enabled, token issuance requires a valid code.
func (u *User) Needs2FASetup() bool {
	return !u.TOTPEnabled
}
