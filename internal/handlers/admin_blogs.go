// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"procomm/internal/cache"
	"procomm/internal/middleware"
	"procomm/internal/models"
	"procomm/internal/slug"
	"procomm/internal/store"
)

// postCreateInput is the payload for creating a post. The slug is
// always derived from the title server-side.
type postCreateInput struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage *string  `json:"featured_image"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
	Published     bool     `json:"published"`
}

// postUpdateInput carries optional field updates. A nil field means
// "leave unchanged"; only the listed fields can be updated at all.
type postUpdateInput struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	FeaturedImage *string   `json:"featured_image"`
	Author        *string   `json:"author"`
	Tags          *[]string `json:"tags"`
	Published     *bool     `json:"published"`
}

// BlogsList returns one page of posts regardless of publication state,
// most recently updated first.
func (a *Admin) BlogsList(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)

	posts, total, err := a.postStore.ListAll(limit, (page-1)*limit)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	writeJSON(w, http.StatusOK, listEnvelope{
		Data:       posts,
		Pagination: store.NewPagination(page, limit, total),
	})
}

// BlogGet returns one post by ID, drafts included. Admin reads never
// touch the view counter.
func (a *Admin) BlogGet(w http.ResponseWriter, r *http.Request) {
	post, ok := a.findPost(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// BlogCreate creates a post. The slug is derived from the title and
// made unique with a numeric suffix on collision.
func (a *Admin) BlogCreate(w http.ResponseWriter, r *http.Request) {
	var input postCreateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errMsg := validatePostInput(input.Title, input.Content, input.Excerpt, input.Tags); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	base := slug.Generate(input.Title)
	if base == "" {
		writeError(w, http.StatusBadRequest, "title must contain at least one letter or digit")
		return
	}
	resolved, err := a.postStore.UniqueSlug(base, uuid.Nil)
	if err != nil {
		slog.Error("resolve post slug failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	author := input.Author
	if author == "" {
		if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
			author = sess.DisplayName
		}
	}

	post := &models.Post{
		Title:         input.Title,
		Slug:          resolved,
		Content:       input.Content,
		Excerpt:       input.Excerpt,
		FeaturedImage: input.FeaturedImage,
		Author:        author,
		Tags:          input.Tags,
	}
	post.SetPublished(input.Published, time.Now())

	created, err := a.postStore.Create(post)
	if err == store.ErrSlugTaken {
		writeError(w, http.StatusConflict, "slug already in use")
		return
	}
	if err != nil {
		slog.Error("create post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidator.ContentChanged(cache.KindBlog, created.ID, "create")
	writeJSON(w, http.StatusCreated, created)
}

// BlogUpdate applies a partial update. A title change re-derives the
// slug; publish/unpublish transitions run through the model so the
// publish timestamp behaves consistently.
func (a *Admin) BlogUpdate(w http.ResponseWriter, r *http.Request) {
	post, ok := a.findPost(w, r)
	if !ok {
		return
	}

	var input postUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	titleChanged := input.Title != nil && *input.Title != post.Title
	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Excerpt != nil {
		post.Excerpt = *input.Excerpt
	}
	if input.FeaturedImage != nil {
		if *input.FeaturedImage == "" {
			post.FeaturedImage = nil
		} else {
			post.FeaturedImage = input.FeaturedImage
		}
	}
	if input.Author != nil {
		post.Author = *input.Author
	}
	if input.Tags != nil {
		post.Tags = *input.Tags
	}

	if errMsg := validatePostInput(post.Title, post.Content, post.Excerpt, post.Tags); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	// Only a changed title regenerates the slug, keeping the post's own
	// slug out of the collision check. Re-sending the stored title must
	// never move a published URL.
	if titleChanged {
		base := slug.Generate(post.Title)
		if base == "" {
			writeError(w, http.StatusBadRequest, "title must contain at least one letter or digit")
			return
		}
		resolved, err := a.postStore.UniqueSlug(base, post.ID)
		if err != nil {
			slog.Error("resolve post slug failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		post.Slug = resolved
	}

	if input.Published != nil {
		post.SetPublished(*input.Published, time.Now())
	}

	if err := a.postStore.Update(post); err != nil {
		if err == store.ErrSlugTaken {
			writeError(w, http.StatusConflict, "slug already in use")
			return
		}
		slog.Error("update post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidator.ContentChanged(cache.KindBlog, post.ID, "update")
	writeJSON(w, http.StatusOK, post)
}

// BlogDelete removes a post.
func (a *Admin) BlogDelete(w http.ResponseWriter, r *http.Request) {
	post, ok := a.findPost(w, r)
	if !ok {
		return
	}

	if err := a.postStore.Delete(post.ID); err != nil {
		slog.Error("delete post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidator.ContentChanged(cache.KindBlog, post.ID, "delete")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// findPost loads the post addressed by the {id} URL parameter, writing
// the error response itself when the ID is bad or unknown.
func (a *Admin) findPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	post, err := a.postStore.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return nil, false
	}
	return post, true
}
