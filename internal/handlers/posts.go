// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// Posts groups the post CRUD handlers.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	feedCache  *cache.FeedCache
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, feedCache *cache.FeedCache) *Posts {
	return &Posts{
		posts:      posts,
		categories: categories,
		tags:       tags,
		feedCache:  feedCache,
	}
}

// postResponse decorates a post with its rendered HTML body.
type postResponse struct {
	*models.Post
	BodyHTML string `json:"body_html"`
}

func newPostResponse(p *models.Post) postResponse {
	return postResponse{Post: p, BodyHTML: renderBody(p.Body)}
}

func renderBody(body string) string {
	html, err := markdown.ToHTML(body)
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
		return ""
	}
	return html
}

type postRequest struct {
	Title    *string         `json:"title"`
	Slug     *string         `json:"slug"`
	Body     *string         `json:"body"`
	Status   *string         `json:"status"`
	Category json.RawMessage `json:"category"`
	Tags     *[]string       `json:"tags"`
}

// categoryName decodes the category field. sent reports field presence, so
// an explicit null can clear the category on update.
func (pr *postRequest) categoryName() (name *string, sent bool, ok bool) {
	if pr.Category == nil {
		return nil, false, true
	}
	if string(pr.Category) == "null" {
		return nil, true, true
	}
	var s string
	if err := json.Unmarshal(pr.Category, &s); err != nil {
		return nil, true, false
	}
	return &s, true, true
}

// List serves the public feed: live published posts, newest first. The
// serialized response is cached in Valkey until the next post write.
func (p *Posts) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if payload, ok := p.feedCache.Get(ctx); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	posts, err := p.posts.ListPublished()
	if err != nil {
		slog.Error("list posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	feed := make([]postResponse, len(posts))
	for i := range posts {
		feed[i] = newPostResponse(&posts[i])
	}

	payload, err := json.Marshal(feed)
	if err != nil {
		slog.Error("marshal feed failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	p.feedCache.Set(ctx, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Create makes a new post owned by the authenticated user. The slug comes
// from the request when given, otherwise it is derived from the title with
// numeric suffixes until free.
func (p *Posts) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())
	if !policy.CanCreate(actor) {
		respondError(w, http.StatusForbidden, "not allowed")
		return
	}

	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	catName, _, catOK := req.categoryName()
	if !catOK {
		respondError(w, http.StatusBadRequest, "category must be a string or null")
		return
	}

	if req.Title == nil {
		respondFieldErrors(w, fieldErrors{"title": {"This field is required."}})
		return
	}
	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
	}
	errs := validatePostInput(req.Title, req.Body, catName, tags)

	status := models.StatusDraft
	if req.Status != nil {
		parsed, err := models.ParseStatus(*req.Status)
		if err != nil {
			errs.add("status", "Status must be \"draft\" or \"published\".")
		} else {
			status = parsed
		}
	}
	if !errs.empty() {
		respondFieldErrors(w, errs)
		return
	}

	body := ""
	if req.Body != nil {
		body = *req.Body
	}

	categoryID, err := p.resolveCategory(catName)
	if err != nil {
		slog.Error("resolve category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	tagIDs, err := p.resolveTags(tags)
	if err != nil {
		slog.Error("resolve tags failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	explicit := ""
	if req.Slug != nil {
		explicit = *req.Slug
	}

	// The unique constraint is the final arbiter: a concurrent writer can
	// grab a slug between assignment and insert, so derived slugs get a
	// few regeneration attempts. An explicit slug is the caller's to lose.
	var created *models.Post
	for attempt := 0; attempt < 3; attempt++ {
		assigned, err := slug.Assign(explicit, *req.Title, p.posts.SlugTaken)
		if err != nil {
			slog.Error("slug assignment failed", "error", err)
			respondError(w, http.StatusInternalServerError, "unexpected error")
			return
		}

		created, err = p.posts.Create(actor.ID, strings.TrimSpace(*req.Title), assigned, body, status, categoryID, tagIDs)
		if err == store.ErrConflict {
			if strings.TrimSpace(explicit) != "" {
				respondError(w, http.StatusConflict, "a post with this slug already exists")
				return
			}
			continue
		}
		if err != nil {
			slog.Error("create post failed", "error", err)
			respondError(w, http.StatusInternalServerError, "unexpected error")
			return
		}
		break
	}
	if created == nil {
		respondError(w, http.StatusConflict, "could not assign a unique slug")
		return
	}

	p.feedCache.Invalidate(r.Context())
	respondJSON(w, http.StatusCreated, newPostResponse(created))
}

// Get serves a single post by slug. Drafts are visible only to their
// author; everyone else sees a 404 so draft slugs stay unguessable.
func (p *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, ok := p.visiblePost(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, newPostResponse(post))
}

// Update applies a partial update. Only the author may edit, and only
// fields present in the request change.
func (p *Posts) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := p.visiblePost(w, r)
	if !ok {
		return
	}
	actor := middleware.ActorFromCtx(r.Context())
	if !policy.CanMutate(actor, post) {
		respondError(w, http.StatusForbidden, "only the author may edit this post")
		return
	}

	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	catName, catSent, catOK := req.categoryName()
	if !catOK {
		respondError(w, http.StatusBadRequest, "category must be a string or null")
		return
	}
	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
	}
	errs := validatePostInput(req.Title, req.Body, catName, tags)

	var status *models.Status
	if req.Status != nil {
		parsed, err := models.ParseStatus(*req.Status)
		if err != nil {
			errs.add("status", "Status must be \"draft\" or \"published\".")
		} else {
			status = &parsed
		}
	}
	// An update has no title to derive from, so the slug must be given
	// outright. Blank would otherwise mean "make one up".
	if req.Slug != nil && strings.TrimSpace(*req.Slug) == "" {
		errs.add("slug", "Slug must not be blank.")
	}
	if !errs.empty() {
		respondFieldErrors(w, errs)
		return
	}

	upd := store.PostUpdate{Body: req.Body, Status: status}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		upd.Title = &trimmed
	}
	if req.Slug != nil {
		assigned, err := slug.Assign(*req.Slug, "", p.posts.SlugTaken)
		if err != nil {
			slog.Error("slug assignment failed", "error", err)
			respondError(w, http.StatusInternalServerError, "unexpected error")
			return
		}
		upd.Slug = &assigned
	}
	if catSent {
		upd.CategorySet = true
		categoryID, err := p.resolveCategory(catName)
		if err != nil {
			slog.Error("resolve category failed", "error", err)
			respondError(w, http.StatusInternalServerError, "unexpected error")
			return
		}
		upd.CategoryID = categoryID
	}
	if req.Tags != nil {
		upd.TagsSet = true
		tagIDs, err := p.resolveTags(tags)
		if err != nil {
			slog.Error("resolve tags failed", "error", err)
			respondError(w, http.StatusInternalServerError, "unexpected error")
			return
		}
		upd.TagIDs = tagIDs
	}

	fresh, err := p.posts.Update(post.ID, upd)
	if err == store.ErrConflict {
		respondError(w, http.StatusConflict, "a post with this slug already exists")
		return
	}
	if err != nil {
		slog.Error("update post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if fresh == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	p.feedCache.Invalidate(r.Context())
	respondJSON(w, http.StatusOK, newPostResponse(fresh))
}

// Delete soft-deletes a post and its comments. Author only.
func (p *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := p.visiblePost(w, r)
	if !ok {
		return
	}
	actor := middleware.ActorFromCtx(r.Context())
	if !policy.CanDelete(actor, post) {
		respondError(w, http.StatusForbidden, "only the author may delete this post")
		return
	}

	deleted, err := p.posts.SoftDelete(post.ID)
	if err != nil {
		slog.Error("delete post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	p.feedCache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// visiblePost loads the post in the URL and applies draft visibility. A
// false return means the response has already been written.
func (p *Posts) visiblePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, err := p.posts.FindBySlug(chi.URLParam(r, "slug"))
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

func (p *Posts) resolveCategory(name *string) (*uuid.UUID, error) {
	if name == nil {
		return nil, nil
	}
	cat, err := p.categories.GetOrCreate(strings.TrimSpace(*name))
	if err != nil {
		return nil, err
	}
	return &cat.ID, nil
}

func (p *Posts) resolveTags(names []string) ([]uuid.UUID, error) {
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		trimmed = append(trimmed, strings.TrimSpace(n))
	}
	tags, err := p.tags.GetOrCreateAll(trimmed)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids, nil
}
