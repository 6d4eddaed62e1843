// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"procomm/internal/cache"
	"procomm/internal/mailer"
	"procomm/internal/markdown"
	"procomm/internal/models"
	"procomm/internal/store"
)

// Public groups the unauthenticated HTTP handlers: blog, gallery,
// contact form, and health.
type Public struct {
	postStore    *store.PostStore
	galleryStore *store.GalleryStore
	contactStore *store.ContactStore
	contentCache *cache.ContentCache
	mail         *mailer.Mailer
}

// NewPublic creates a new Public handler group. mail may be nil when
// SMTP is not configured.
func NewPublic(postStore *store.PostStore, galleryStore *store.GalleryStore, contactStore *store.ContactStore, contentCache *cache.ContentCache, mail *mailer.Mailer) *Public {
	return &Public{
		postStore:    postStore,
		galleryStore: galleryStore,
		contactStore: contactStore,
		contentCache: contentCache,
		mail:         mail,
	}
}

// Health reports service liveness.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listEnvelope is the response shape for paginated public lists.
type listEnvelope struct {
	Data       any              `json:"data"`
	Pagination store.Pagination `json:"pagination"`
}

// BlogList returns one page of published posts, newest first. Supports
// ?tag= filtering and ?page=/?limit= pagination. Responses are cached
// per query combination until a post mutation invalidates the kind.
func (p *Public) BlogList(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	tag := r.URL.Query().Get("tag")

	key := cache.Key(cache.KindBlog, fmt.Sprintf("list:p%d:l%d:%s", page, limit, tag))
	if body, ok := p.contentCache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	posts, total, err := p.postStore.ListPublished(tag, limit, (page-1)*limit)
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	body, err := json.Marshal(listEnvelope{
		Data:       posts,
		Pagination: store.NewPagination(page, limit, total),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	p.contentCache.Set(r.Context(), key, body)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// blogDetail is a published post plus its rendered body.
type blogDetail struct {
	models.Post
	ContentHTML string `json:"content_html"`
}

// BlogDetail returns one published post by slug. Every fetch counts as
// a view; the increment happens in the same statement as the read, so
// this endpoint is deliberately not cached.
func (p *Public) BlogDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := p.postStore.FetchPublishedBySlug(slug)
	if err != nil {
		slog.Error("fetch post by slug failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("markdown render failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, blogDetail{Post: *post, ContentHTML: contentHTML})
}

// GalleryList returns one page of published gallery images, featured
// first. Supports ?category=, ?featured=true, and pagination. Cached
// per query combination.
func (p *Public) GalleryList(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	category := models.GalleryCategory(r.URL.Query().Get("category"))
	featuredOnly := r.URL.Query().Get("featured") == "true"

	if category != "" && !models.ValidGalleryCategory(category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	key := cache.Key(cache.KindGallery, fmt.Sprintf("list:p%d:l%d:%s:%t", page, limit, category, featuredOnly))
	if body, ok := p.contentCache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	images, total, err := p.galleryStore.ListPublished(category, featuredOnly, limit, (page-1)*limit)
	if err != nil {
		slog.Error("list gallery images failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if images == nil {
		images = []models.GalleryImage{}
	}

	body, err := json.Marshal(listEnvelope{
		Data:       images,
		Pagination: store.NewPagination(page, limit, total),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	p.contentCache.Set(r.Context(), key, body)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// ContactSubmit accepts a contact-form submission, stores it with
// status "new", and sends notification mail best-effort.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	var input contactInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": contactFieldErrors(err),
		})
		return
	}

	created, err := p.contactStore.Create(&models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	})
	if err != nil {
		slog.Error("create contact message failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Mail delivery never blocks or fails the submission.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		p.mail.SendContactNotification(ctx, created)
		p.mail.SendContactAck(ctx, created)
	}()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     created.ID,
		"status": created.Status,
	})
}
