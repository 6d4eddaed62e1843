// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

// Package models defines the entities persisted by the ProComm site:
// blog posts, gallery images, contact messages, and admin users.
// State transitions (publication, contact status) live here so they can
// be tested apart from the database layer.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog article. Draft posts are visible only through the admin
// API; published posts appear on the public blog.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content,omitempty"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage *string    `json:"featured_image,omitempty"`
	Author        string     `json:"author"`
	Tags          []string   `json:"tags"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	Views         int64      `json:"views"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SetPublished applies a publish or unpublish transition at the given
// time. Publishing stamps PublishedAt once; unpublishing clears it.
// Re-publishing an already-published record is a no-op.
func (p *Post) SetPublished(published bool, now time.Time) {
	switch {
	case published && !p.Published:
		p.Published = true
		t := now
		p.PublishedAt = &t
	case !published && p.Published:
		p.Published = false
		p.PublishedAt = nil
	}
}
