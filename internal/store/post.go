// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// PostUpdate carries the optional fields of a partial post update. Nil
// pointers leave the column untouched. CategoryID and Tags use a separate
// set flag so an explicit null can clear them.
type PostUpdate struct {
	Title       *string
	Slug        *string
	Body        *string
	Status      *models.Status
	CategoryID  *uuid.UUID
	CategorySet bool
	TagIDs      []uuid.UUID
	TagsSet     bool
}

const postSelect = `
	SELECT p.id, p.author_id, p.title, p.slug, p.body, p.category_id, p.status,
		p.created_at, p.updated_at, p.deleted_at,
		u.id, u.email, u.first_name, u.last_name, u.is_active, u.is_staff, u.avatar,
		c.id, c.name, c.slug
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id AND c.deleted_at IS NULL
`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var author models.User
	var catID *uuid.UUID
	var catName, catSlug *string
	err := scanner.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Body, &p.CategoryID, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		&author.ID, &author.Email, &author.FirstName, &author.LastName,
		&author.IsActive, &author.IsStaff, &author.Avatar,
		&catID, &catName, &catSlug,
	)
	if err != nil {
		return nil, err
	}
	p.Author = &author
	if catID != nil {
		p.Category = &models.Category{ID: *catID, Name: *catName, Slug: *catSlug}
	}
	return &p, nil
}

// ListPublished returns live published posts, newest first, with author,
// category and tags attached.
func (s *PostStore) ListPublished() ([]models.Post, error) {
	rows, err := s.db.Query(postSelect + `
		WHERE p.deleted_at IS NULL AND p.status = 2
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachTags(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FindBySlug retrieves a live post of any status by slug. Returns nil if
// not found. Visibility of drafts is the caller's concern.
func (s *PostStore) FindBySlug(postSlug string) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.slug = $1 AND p.deleted_at IS NULL`, postSlug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	single := []models.Post{*p}
	if err := s.attachTags(single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// FindByID retrieves a live post of any status by UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1 AND p.deleted_at IS NULL`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	single := []models.Post{*p}
	if err := s.attachTags(single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// SlugTaken reports whether a post slug exists, including soft-deleted
// rows. Deleted posts keep their slugs reserved.
func (s *PostStore) SlugTaken(candidate string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, candidate).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return taken, nil
}

// Create inserts a post with its tag links in one transaction. A slug
// collision from a concurrent writer surfaces as ErrConflict so the caller
// can regenerate and retry.
func (s *PostStore) Create(authorID uuid.UUID, title, postSlug, body string, status models.Status, categoryID *uuid.UUID, tagIDs []uuid.UUID) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create post: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO posts (author_id, title, slug, body, status, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, authorID, title, postSlug, body, status, categoryID).Scan(&id)
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := replaceTags(tx, id, tagIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}
	return s.FindByID(id)
}

// Update applies a partial update to a live post. Returns the fresh row,
// nil when the post does not exist, or ErrConflict on a slug collision.
func (s *PostStore) Update(id uuid.UUID, upd PostUpdate) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin update post: %w", err)
	}
	defer tx.Rollback()

	sets := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, v)
		n++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Slug != nil {
		add("slug", *upd.Slug)
	}
	if upd.Body != nil {
		add("body", *upd.Body)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.CategorySet {
		add("category_id", upd.CategoryID)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE posts SET %s
		WHERE id = $%d AND deleted_at IS NULL
	`, strings.Join(sets, ", "), n)

	res, err := tx.Exec(query, args...)
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update post rows: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	if upd.TagsSet {
		if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear post tags: %w", err)
		}
		if err := replaceTags(tx, id, upd.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update post: %w", err)
	}
	return s.FindByID(id)
}

// SoftDelete marks a post deleted along with its live comments, in one
// transaction. Returns false if the post was already deleted or never
// existed.
func (s *PostStore) SoftDelete(id uuid.UUID) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin delete post: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE posts SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.Exec(`
		UPDATE comments SET deleted_at = NOW(), updated_at = NOW()
		WHERE post_id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete post comments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete post: %w", err)
	}
	return true, nil
}

// replaceTags inserts post_tags links for the given tag IDs.
func replaceTags(tx *sql.Tx, postID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		_, err := tx.Exec(`
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID)
		if err != nil {
			return fmt.Errorf("link post tag: %w", err)
		}
	}
	return nil
}

// attachTags loads the tags for a batch of posts with a single query.
func (s *PostStore) attachTags(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	placeholders := make([]string, len(posts))
	args := make([]any, len(posts))
	index := make(map[uuid.UUID]int, len(posts))
	for i := range posts {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Tags = []models.Tag{}
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id AND t.deleted_at IS NULL
		WHERE pt.post_id IN (%s)
		ORDER BY t.name ASC
	`, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		i := index[postID]
		posts[i].Tags = append(posts[i].Tags, t)
	}
	return rows.Err()
}
