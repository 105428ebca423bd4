// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// TagStore handles all tag-related database operations.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore with the given database connection.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, slug, created_at, updated_at, deleted_at`

func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all live tags ordered by name.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT ` + tagColumns + ` FROM tags
		WHERE deleted_at IS NULL ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// FindByName retrieves a live tag by exact name. Returns nil if not found.
func (s *TagStore) FindByName(name string) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE name = $1 AND deleted_at IS NULL`, name)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return t, nil
}

// SlugTaken reports whether a tag slug exists, including soft-deleted rows.
func (s *TagStore) SlugTaken(candidate string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM tags WHERE slug = $1)`, candidate).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check tag slug: %w", err)
	}
	return taken, nil
}

// getOrCreate resolves a single tag name, creating it when absent.
func (s *TagStore) getOrCreate(name string) (*models.Tag, error) {
	for attempt := 0; attempt < conflictRetries; attempt++ {
		existing, err := s.FindByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}

		assigned, err := slug.Unique(slug.Generate(name), s.SlugTaken)
		if err != nil {
			return nil, fmt.Errorf("assign tag slug: %w", err)
		}

		row := s.db.QueryRow(`
			INSERT INTO tags (name, slug) VALUES ($1, $2)
			RETURNING `+tagColumns,
			name, assigned,
		)
		t, err := scanTag(row)
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create tag: %w", err)
		}
		return t, nil
	}
	return nil, ErrConflict
}

// GetOrCreateAll resolves a list of tag names to tag rows, creating missing
// ones. Duplicate names collapse to a single tag; input order is preserved
// for first occurrences.
func (s *TagStore) GetOrCreateAll(names []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		t, err := s.getOrCreate(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, nil
}
