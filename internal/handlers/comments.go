// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/store"
)

// Comments groups the comment handlers, nested under a post slug.
type Comments struct {
	posts    *store.PostStore
	comments *store.CommentStore
}

// NewComments creates a new Comments handler group.
func NewComments(posts *store.PostStore, comments *store.CommentStore) *Comments {
	return &Comments{posts: posts, comments: comments}
}

// List serves the live comments of a post, newest first. The post must be
// visible to the caller under the same rules as the post itself.
func (c *Comments) List(w http.ResponseWriter, r *http.Request) {
	post, ok := c.visiblePost(w, r)
	if !ok {
		return
	}

	comments, err := c.comments.ListByPost(post.ID)
	if err != nil {
		slog.Error("list comments failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondJSON(w, http.StatusOK, comments)
}

type commentRequest struct {
	Body string `json:"body"`
}

// Create adds a comment to a visible post. Any active authenticated user
// may comment, not just the post's author.
func (c *Comments) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())
	if !policy.CanCreate(actor) {
		respondError(w, http.StatusForbidden, "not allowed")
		return
	}

	post, ok := c.visiblePost(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validateComment(req.Body); !errs.empty() {
		respondFieldErrors(w, errs)
		return
	}

	comment, err := c.comments.Create(post.ID, actor.ID, req.Body)
	if err != nil {
		slog.Error("create comment failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// visiblePost mirrors the post handler's draft visibility rules.
func (c *Comments) visiblePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, err := c.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("find post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return nil, false
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return nil, false
	}
	if !post.IsPublished() {
		actor := middleware.ActorFromCtx(r.Context())
		if !policy.CanReadDraft(actor, post) {
			respondError(w, http.StatusNotFound, "post not found")
			return nil, false
		}
	}
	return post, true
}
