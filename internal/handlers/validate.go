// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
)

// Validation limits for free-text fields.
const (
	maxBodyLen    = 100_000
	maxCommentLen = 10_000
	minPasswordLen = 8
)

// restrictedEmailDomains may not register accounts.
var restrictedEmailDomains = map[string]bool{
	"yahoo.com": true,
}

// fieldErrors accumulates per-field validation messages.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) empty() bool { return len(f) == 0 }

// validateRegistration checks the registration payload. Returns an empty
// map when everything passes.
func validateRegistration(email, password, passwordConfirm, firstName, lastName string) fieldErrors {
	errs := fieldErrors{}

	email = strings.TrimSpace(email)
	if email == "" {
		errs.add("email", "This field is required.")
	} else {
		if utf8.RuneCountInString(email) > models.EmailMaxLen {
			errs.add("email", "Email is too long (max 150 characters).")
		}
		if _, err := mail.ParseAddress(email); err != nil {
			errs.add("email", "Enter a valid email address.")
		} else {
			local, domain, _ := strings.Cut(email, "@")
			if restrictedEmailDomains[strings.ToLower(domain)] {
				errs.add("email", "Registration with this email provider is not allowed.")
			}
			// The address may not leak into the display name.
			fullName := strings.ToLower(firstName + lastName)
			if local != "" && strings.Contains(fullName, strings.ToLower(local)) {
				errs.add("email", "Email must not appear in the first or last name.")
			}
		}
	}

	if password == "" {
		errs.add("password", "This field is required.")
	} else if utf8.RuneCountInString(password) < minPasswordLen {
		errs.add("password", "Password must be at least 8 characters.")
	}
	if password != passwordConfirm {
		errs.add("password_confirm", "Passwords do not match.")
	}

	if strings.TrimSpace(firstName) == "" {
		errs.add("first_name", "This field is required.")
	} else if utf8.RuneCountInString(firstName) > models.FirstNameMaxLen {
		errs.add("first_name", "First name is too long (max 50 characters).")
	}
	if strings.TrimSpace(lastName) == "" {
		errs.add("last_name", "This field is required.")
	} else if utf8.RuneCountInString(lastName) > models.LastNameMaxLen {
		errs.add("last_name", "Last name is too long (max 50 characters).")
	}

	return errs
}

// validatePostInput checks title, body and taxonomy fields shared by the
// create and update paths. Pass nil for fields the request did not send.
func validatePostInput(title, body, category *string, tags []string) fieldErrors {
	errs := fieldErrors{}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			errs.add("title", "This field is required.")
		} else if utf8.RuneCountInString(trimmed) > models.TitleMaxLen {
			errs.add("title", "Title is too long (max 200 characters).")
		}
	}
	if body != nil && utf8.RuneCountInString(*body) > maxBodyLen {
		errs.add("body", "Body is too long (max 100,000 characters).")
	}
	if category != nil {
		trimmed := strings.TrimSpace(*category)
		if trimmed == "" {
			errs.add("category", "Category name must not be blank.")
		} else if utf8.RuneCountInString(trimmed) > models.CategoryNameMaxLen {
			errs.add("category", "Category name is too long (max 100 characters).")
		}
	}
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			errs.add("tags", "Tag names must not be blank.")
			break
		}
		if utf8.RuneCountInString(trimmed) > models.TagNameMaxLen {
			errs.add("tags", "Tag names are too long (max 50 characters).")
			break
		}
	}

	return errs
}

// validateComment checks a comment body.
func validateComment(body string) fieldErrors {
	errs := fieldErrors{}
	if strings.TrimSpace(body) == "" {
		errs.add("body", "This field is required.")
	} else if utf8.RuneCountInString(body) > maxCommentLen {
		errs.add("body", "Comment is too long (max 10,000 characters).")
	}
	return errs
}
