// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, c.body, c.created_at, c.updated_at, c.deleted_at,
		u.id, u.email, u.first_name, u.last_name, u.is_active, u.is_staff, u.avatar
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	var author models.User
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		&author.ID, &author.Email, &author.FirstName, &author.LastName,
		&author.IsActive, &author.IsStaff, &author.Avatar,
	)
	if err != nil {
		return nil, err
	}
	c.Author = &author
	return &c, nil
}

// ListByPost returns live comments for a post, newest first, with authors attached.
func (s *CommentStore) ListByPost(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(commentSelect+`
		WHERE c.post_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.created_at DESC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// Create inserts a comment and returns it with the author attached.
func (s *CommentStore) Create(postID, authorID uuid.UUID, body string) (*models.Comment, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO comments (post_id, author_id, body) VALUES ($1, $2, $3)
		RETURNING id
	`, postID, authorID, body).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	row := s.db.QueryRow(commentSelect+` WHERE c.id = $1`, id)
	c, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("load created comment: %w", err)
	}
	return c, nil
}
