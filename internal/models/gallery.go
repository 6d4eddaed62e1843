// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// GalleryCategory classifies gallery images for the public gallery filters.
type GalleryCategory string

const (
	CategoryGeneral  GalleryCategory = "general"
	CategoryTraining GalleryCategory = "training"
	CategoryEvents   GalleryCategory = "events"
	CategoryProjects GalleryCategory = "projects"
	CategoryMedia    GalleryCategory = "media"
)

// ValidGalleryCategory reports whether c is one of the known categories.
func ValidGalleryCategory(c GalleryCategory) bool {
	switch c {
	case CategoryGeneral, CategoryTraining, CategoryEvents, CategoryProjects, CategoryMedia:
		return true
	}
	return false
}

// GalleryImage is a photo in the public gallery. It follows the same
// draft/published lifecycle as a Post; ImageURL points at object storage.
type GalleryImage struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	ImageURL    string          `json:"image_url"`
	ThumbURL    *string         `json:"thumb_url,omitempty"`
	Category    GalleryCategory `json:"category"`
	Tags        []string        `json:"tags"`
	Featured    bool            `json:"featured"`
	SortOrder   int             `json:"sort_order"`
	Published   bool            `json:"published"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	Views       int64           `json:"views"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SetPublished applies a publish or unpublish transition at the given time.
func (g *GalleryImage) SetPublished(published bool, now time.Time) {
	switch {
	case published && !g.Published:
		g.Published = true
		t := now
		g.PublishedAt = &t
	case !published && g.Published:
		g.Published = false
		g.PublishedAt = nil
	}
}
