// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCommentFlow(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "comment-author@example.com")
	reader := env.createUser(t, "comment-reader@example.com")
	env.cleanPosts(t, "commentable")

	rec := httptest.NewRecorder()
	env.Posts.Create(rec, asActor(jsonRequest("POST", "/post", map[string]any{
		"title": "Commentable", "slug": "commentable", "status": "published",
	}), author))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post status = %d: %s", rec.Code, rec.Body.String())
	}

	// Any active user may comment, not just the author.
	rec = httptest.NewRecorder()
	env.Comments.Create(rec, asActor(withSlug(jsonRequest("POST", "/post/commentable/comments", map[string]string{
		"body": "great post",
	}), "commentable"), reader))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	comment := decodeBody(t, rec)
	commentAuthor, _ := comment["author"].(map[string]any)
	if commentAuthor == nil || commentAuthor["email"] != "comment-reader@example.com" {
		t.Errorf("comment author = %v, want the commenter", comment["author"])
	}

	// Listing is public and newest first.
	rec = httptest.NewRecorder()
	env.Comments.Create(rec, asActor(withSlug(jsonRequest("POST", "/post/commentable/comments", map[string]string{
		"body": "second comment",
	}), "commentable"), author))
	if rec.Code != http.StatusCreated {
		t.Fatalf("second comment status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	env.Comments.List(rec, withSlug(httptest.NewRequest("GET", "/post/commentable/comments", nil), "commentable"))
	if rec.Code != http.StatusOK {
		t.Fatalf("list comments status = %d, want 200", rec.Code)
	}
	var comments []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&comments); err != nil {
		t.Fatalf("decode comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0]["body"] != "second comment" {
		t.Errorf("comments[0] = %v, want the newest first", comments[0]["body"])
	}
}

func TestCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "comment-validate@example.com")
	env.cleanPosts(t, "comment-validate")

	rec := httptest.NewRecorder()
	env.Posts.Create(rec, asActor(jsonRequest("POST", "/post", map[string]any{
		"title": "Comment Validate", "slug": "comment-validate", "status": "published",
	}), author))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	env.Comments.Create(rec, asActor(withSlug(jsonRequest("POST", "/post/comment-validate/comments", map[string]string{
		"body": "   ",
	}), "comment-validate"), author))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank comment status = %d, want 400", rec.Code)
	}
}

func TestCommentOnMissingPost(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "comment-missing@example.com")

	rec := httptest.NewRecorder()
	env.Comments.Create(rec, asActor(withSlug(jsonRequest("POST", "/post/no-such-post/comments", map[string]string{
		"body": "into the void",
	}), "no-such-post"), author))
	if rec.Code != http.StatusNotFound {
		t.Errorf("comment on missing post status = %d, want 404", rec.Code)
	}
}
