// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"procomm/internal/cache"
	"procomm/internal/imaging"
	"procomm/internal/models"
	"procomm/internal/slug"
	"procomm/internal/store"
)

// maxUploadBytes caps gallery uploads at 20 MB.
const maxUploadBytes = 20 << 20

// allowedImageTypes are the MIME types accepted for gallery uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

type galleryCreateInput struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ImageURL    string   `json:"image_url"`
	ThumbURL    *string  `json:"thumb_url"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	SortOrder   int      `json:"sort_order"`
	Published   bool     `json:"published"`
}

type galleryUpdateInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	ThumbURL    *string   `json:"thumb_url"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	Featured    *bool     `json:"featured"`
	SortOrder   *int      `json:"sort_order"`
	Published   *bool     `json:"published"`
}

// GalleryList returns one page of gallery images regardless of
// publication state, most recently updated first.
func (a *Admin) GalleryList(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)

	images, total, err := a.galleryStore.ListAll(limit, (page-1)*limit)
	if err != nil {
		slog.Error("list gallery images failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if images == nil {
		images = []models.GalleryImage{}
	}

	writeJSON(w, http.StatusOK, listEnvelope{
		Data:       images,
		Pagination: store.NewPagination(page, limit, total),
	})
}

// GalleryGet returns one gallery image by ID, drafts included.
func (a *Admin) GalleryGet(w http.ResponseWriter, r *http.Request) {
	img, ok := a.findGalleryImage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, img)
}

// GalleryCreate creates a gallery image record. The image itself is
// uploaded separately via GalleryUpload; this takes the resulting URLs.
func (a *Admin) GalleryCreate(w http.ResponseWriter, r *http.Request) {
	var input galleryCreateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errMsg := a.validateGalleryInput(input.Title, input.ImageURL, input.Category, input.Tags); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	base := slug.Generate(input.Title)
	if base == "" {
		writeError(w, http.StatusBadRequest, "title must contain at least one letter or digit")
		return
	}
	resolved, err := a.galleryStore.UniqueSlug(base, uuid.Nil)
	if err != nil {
		slog.Error("resolve gallery slug failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	img := &models.GalleryImage{
		Title:       input.Title,
		Slug:        resolved,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ThumbURL:    input.ThumbURL,
		Category:    models.GalleryCategory(input.Category),
		Tags:        input.Tags,
		Featured:    input.Featured,
		SortOrder:   input.SortOrder,
	}
	img.SetPublished(input.Published, time.Now())

	created, err := a.galleryStore.Create(img)
	if err == store.ErrSlugTaken {
		writeError(w, http.StatusConflict, "slug already in use")
		return
	}
	if err != nil {
		slog.Error("create gallery image failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidator.ContentChanged(cache.KindGallery, created.ID, "create")
	writeJSON(w, http.StatusCreated, created)
}

// GalleryUpdate applies a partial update to a gallery image. A title
// change re-derives the slug.
func (a *Admin) GalleryUpdate(w http.ResponseWriter, r *http.Request) {
	img, ok := a.findGalleryImage(w, r)
	if !ok {
		return
	}

	var input galleryUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	titleChanged := input.Title != nil && *input.Title != img.Title
	if input.Title != nil {
		img.Title = *input.Title
	}
	if input.Description != nil {
		if *input.Description == "" {
			img.Description = nil
		} else {
			img.Description = input.Description
		}
	}
	if input.ImageURL != nil {
		img.ImageURL = *input.ImageURL
	}
	if input.ThumbURL != nil {
		if *input.ThumbURL == "" {
			img.ThumbURL = nil
		} else {
			img.ThumbURL = input.ThumbURL
		}
	}
	if input.Category != nil {
		img.Category = models.GalleryCategory(*input.Category)
	}
	if input.Tags != nil {
		img.Tags = *input.Tags
	}
	if input.Featured != nil {
		img.Featured = *input.Featured
	}
	if input.SortOrder != nil {
		img.SortOrder = *input.SortOrder
	}

	if errMsg := a.validateGalleryInput(img.Title, img.ImageURL, string(img.Category), img.Tags); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	if titleChanged {
		base := slug.Generate(img.Title)
		if base == "" {
			writeError(w, http.StatusBadRequest, "title must contain at least one letter or digit")
			return
		}
		resolved, err := a.galleryStore.UniqueSlug(base, img.ID)
		if err != nil {
			slog.Error("resolve gallery slug failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		img.Slug = resolved
	}

	if input.Published != nil {
		img.SetPublished(*input.Published, time.Now())
	}

	if err := a.galleryStore.Update(img); err != nil {
		if err == store.ErrSlugTaken {
			writeError(w, http.StatusConflict, "slug already in use")
			return
		}
		slog.Error("update gallery image failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.invalidator.ContentChanged(cache.KindGallery, img.ID, "update")
	writeJSON(w, http.StatusOK, img)
}

// GalleryDelete removes a gallery image record and best-effort deletes
// its objects from storage.
func (a *Admin) GalleryDelete(w http.ResponseWriter, r *http.Request) {
	img, ok := a.findGalleryImage(w, r)
	if !ok {
		return
	}

	if err := a.galleryStore.Delete(img.ID); err != nil {
		slog.Error("delete gallery image failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if a.storageClient != nil {
		urls := []string{img.ImageURL}
		if img.ThumbURL != nil {
			urls = append(urls, *img.ThumbURL)
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			for _, u := range urls {
				key, ok := a.storageClient.ExtractKey(u)
				if !ok {
					continue
				}
				if err := a.storageClient.Delete(ctx, key); err != nil {
					slog.Warn("delete stored object failed", "key", key, "error", err)
				}
			}
		}()
	}

	a.invalidator.ContentChanged(cache.KindGallery, img.ID, "delete")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GalleryUpload accepts a multipart image upload, stores the original
// in object storage, generates a thumbnail for raster formats, and
// returns the public URLs for use in a subsequent create or update.
func (a *Admin) GalleryUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported image type")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	now := time.Now()
	id := uuid.New()
	ext := imaging.ExtensionFromType(contentType)
	key := fmt.Sprintf("gallery/%d/%02d/%s%s", now.Year(), now.Month(), id, ext)

	if err := a.storageClient.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("upload image failed", "key", key, "error", err)
		writeError(w, http.StatusBadGateway, "failed to store image")
		return
	}

	resp := map[string]string{"image_url": a.storageClient.FileURL(key)}

	if thumb := a.makeThumb(r, data, contentType, id, now); thumb != "" {
		resp["thumb_url"] = thumb
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (a *Admin) makeThumb(r *http.Request, data []byte, contentType string, id uuid.UUID, now time.Time) string {
	if !imaging.ThumbableTypes[contentType] {
		return ""
	}
	thumb, err := imaging.Thumbnail(bytes.NewReader(data), imaging.ThumbMaxWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err)
		return ""
	}
	if thumb == nil {
		return ""
	}
	key := fmt.Sprintf("gallery/%d/%02d/%s_thumb.jpg", now.Year(), now.Month(), id)
	if err := a.storageClient.Upload(r.Context(), key, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
		slog.Warn("upload thumbnail failed", "key", key, "error", err)
		return ""
	}
	return a.storageClient.FileURL(key)
}

func (a *Admin) validateGalleryInput(title, imageURL, category string, tags []string) string {
	if strings.TrimSpace(title) == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Sprintf("title exceeds %d characters", maxTitleLen)
	}
	if strings.TrimSpace(imageURL) == "" {
		return "image_url is required"
	}
	if !models.ValidGalleryCategory(models.GalleryCategory(category)) {
		return "unknown category"
	}
	return validateTags(tags)
}

func (a *Admin) findGalleryImage(w http.ResponseWriter, r *http.Request) (*models.GalleryImage, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	img, err := a.galleryStore.FindByID(id)
	if err != nil {
		slog.Error("find gallery image failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if img == nil {
		writeError(w, http.StatusNotFound, "gallery image not found")
		return nil, false
	}
	return img, true
}
