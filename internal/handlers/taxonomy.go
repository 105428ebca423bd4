// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Taxonomy groups the read-only category and tag listing handlers.
type Taxonomy struct {
	categories *store.CategoryStore
	tags       *store.TagStore
}

// NewTaxonomy creates a new Taxonomy handler group.
func NewTaxonomy(categories *store.CategoryStore, tags *store.TagStore) *Taxonomy {
	return &Taxonomy{categories: categories, tags: tags}
}

// ListCategories serves all live categories ordered by name.
func (t *Taxonomy) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := t.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

// ListTags serves all live tags ordered by name.
func (t *Taxonomy) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := t.tags.List()
	if err != nil {
		slog.Error("list tags failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, http.StatusOK, tags)
}
