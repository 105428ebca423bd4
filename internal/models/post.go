// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// TitleMaxLen bounds post titles.
const TitleMaxLen = 200

// Status is the internal publication state code of a post. The wire format
// is the human-readable label; the code is what gets persisted.
type Status int

const (
	StatusDraft     Status = 1
	StatusPublished Status = 2
)

const (
	statusDraftLabel     = "draft"
	statusPublishedLabel = "published"
)

// ErrInvalidStatus is returned by ParseStatus for labels that name no known
// publication state. Unknown labels fail validation, they never default.
var ErrInvalidStatus = fmt.Errorf("status must be %q or %q", statusDraftLabel, statusPublishedLabel)

// ParseStatus maps a human-readable status label to its internal code.
func ParseStatus(label string) (Status, error) {
	switch label {
	case statusDraftLabel:
		return StatusDraft, nil
	case statusPublishedLabel:
		return StatusPublished, nil
	default:
		return 0, ErrInvalidStatus
	}
}

// Label returns the human-readable form of the status.
func (s Status) Label() string {
	switch s {
	case StatusPublished:
		return statusPublishedLabel
	default:
		return statusDraftLabel
	}
}

// MarshalJSON serializes the status as its label.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Label())
}

// UnmarshalJSON parses a status label, rejecting unknown values.
func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Post is an article written by a user. The author is set at creation and
// never changes. The slug is derived from the title at creation time and is
// never recomputed on later title edits, so public URLs stay stable.
type Post struct {
	ID         uuid.UUID  `json:"id"`
	AuthorID   uuid.UUID  `json:"-"`
	Author     *User      `json:"author,omitempty"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Body       string     `json:"body"`
	CategoryID *uuid.UUID `json:"-"`
	Category   *Category  `json:"category,omitempty"`
	Tags       []Tag      `json:"tags"`
	Status     Status     `json:"status"`
	Timestamps
}

// IsPublished reports whether the post is visible in the public feed.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}
