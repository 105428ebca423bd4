// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and deterministic collision resolution against an existence predicate.
package slug

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// nonAlphanumeric matches runs of anything that isn't a lowercase letter
// or digit. Each run collapses to a single hyphen.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// maxSequence caps the sequential collision counter. Beyond it a random
// suffix is tried once before giving up, so a pathological set of existing
// slugs cannot spin the loop forever.
const maxSequence = 1000

// ErrExhausted is returned when no free candidate could be found within
// the sequential budget and the random fallback was also taken.
var ErrExhausted = errors.New("slug: candidate space exhausted")

// Taken reports whether a slug is already in use. Implementations must
// count soft-deleted rows as still occupying their slug.
type Taken func(slug string) (bool, error)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Assign picks the slug for a new entity. A non-empty explicit slug is
// returned unchanged and its uniqueness stays the caller's responsibility.
// Otherwise the candidate text is normalized and de-collided via Unique.
func Assign(explicit, candidate string, taken Taken) (string, error) {
	if s := strings.TrimSpace(explicit); s != "" {
		return s, nil
	}
	return Unique(Generate(candidate), taken)
}

// Unique returns base if free, otherwise base-1, base-2, … in order until
// the predicate reports a free candidate. The predicate is read-only; the
// caller persists the result, and the database uniqueness constraint stays
// the final arbiter under concurrent creation. A lost race is recovered by
// calling Unique again: the winner's row is then visible to the predicate
// and the next suffix wins.
func Unique(base string, taken Taken) (string, error) {
	if base == "" {
		// Titles with no alphanumeric content normalize to nothing.
		base = randomToken()
	}

	candidate := base
	for i := 0; i <= maxSequence; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}

	// Sequential space exhausted; try one random suffix.
	candidate = base + "-" + randomToken()
	inUse, err := taken(candidate)
	if err != nil {
		return "", err
	}
	if inUse {
		return "", ErrExhausted
	}
	return candidate, nil
}

// randomToken returns 8 hex chars of entropy for fallback suffixes.
func randomToken() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
