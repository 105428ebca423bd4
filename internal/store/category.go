// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// CategoryStore handles all category-related database operations.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore with the given database connection.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, created_at, updated_at, deleted_at`

func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all live categories ordered by name.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + ` FROM categories
		WHERE deleted_at IS NULL ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// FindByID retrieves a live category by UUID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND deleted_at IS NULL`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByName retrieves a live category by exact name. Returns nil if not found.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE name = $1 AND deleted_at IS NULL`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// SlugTaken reports whether a category slug exists, including soft-deleted
// rows. Deleted categories keep their slugs reserved.
func (s *CategoryStore) SlugTaken(candidate string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`, candidate).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return taken, nil
}

// GetOrCreate returns the live category with the given name, creating it
// with a freshly assigned slug when absent. Concurrent creators race on the
// unique name constraint; the loser re-reads the winner's row.
func (s *CategoryStore) GetOrCreate(name string) (*models.Category, error) {
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
			return nil, fmt.Errorf("assign category slug: %w", err)
		}

		row := s.db.QueryRow(`
			INSERT INTO categories (name, slug) VALUES ($1, $2)
			RETURNING `+categoryColumns,
			name, assigned,
		)
		c, err := scanCategory(row)
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		return c, nil
	}
	return nil, ErrConflict
}

// SoftDelete marks a category deleted and detaches its live posts, which
// fall back to uncategorized. Both writes happen in one transaction.
// Returns false if the category was already deleted or never existed.
func (s *CategoryStore) SoftDelete(id uuid.UUID) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE categories SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.Exec(`
		UPDATE posts SET category_id = NULL, updated_at = NOW()
		WHERE category_id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("detach posts from category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete category: %w", err)
	}
	return true, nil
}
