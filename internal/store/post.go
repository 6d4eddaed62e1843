// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"procomm/internal/models"
)

// postColumns is the full select list for a post row.
const postColumns = `id, title, slug, content, excerpt, featured_image, author,
       tags, published, published_at, views, created_at, updated_at`

// PostStore handles all blog-post database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// scanPost reads one post row into a models.Post.
func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	var rawTags []byte
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.Author, &rawTags, &p.Published, &p.PublishedAt, &p.Views,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := scanTags(rawTags, &p.Tags); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublished returns one page of published posts, newest first by
// publish date. The content column is replaced with an empty string to
// keep list payloads small; tag filters match any element of the tags
// array. Returns the page plus the total matching count.
func (s *PostStore) ListPublished(tag string, limit, offset int) ([]models.Post, int, error) {
	where := "published = TRUE"
	args := []any{}
	if tag != "" {
		args = append(args, tag)
		where += fmt.Sprintf(" AND tags @> to_jsonb(ARRAY[$%d]::text[])", len(args))
	}

	countQuery := "SELECT COUNT(*) FROM posts WHERE " + where
	var total int
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	listArgs := append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE %s
		ORDER BY published_at DESC NULLS LAST, created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Replace(postColumns, "content", "''", 1), where, len(args)+1, len(args)+2)

	rows, err := s.db.Query(query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

// ListAll returns one page of posts regardless of publication state,
// most recently updated first. Used by the admin listing; content is
// omitted just like the public list.
func (s *PostStore) ListAll(limit, offset int) ([]models.Post, int, error) {
	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM posts
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, strings.Replace(postColumns, "content", "''", 1))

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(
		"SELECT "+postColumns+" FROM posts WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FetchPublishedBySlug retrieves a published post by slug and atomically
// increments its view counter in the same statement, so concurrent reads
// never lose counts. Returns nil if no published post has the slug.
func (s *PostStore) FetchPublishedBySlug(slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		UPDATE posts SET views = views + 1
		WHERE slug = $1 AND published = TRUE
		RETURNING `+postColumns,
		slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID and
// timestamps.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tags, err := tagsValue(p.Tags)
	if err != nil {
		return nil, err
	}

	created, err := scanPost(s.db.QueryRow(`
		INSERT INTO posts (title, slug, content, excerpt, featured_image,
		                   author, tags, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage,
		p.Author, tags, p.Published, p.PublishedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update rewrites an existing post's mutable columns.
func (s *PostStore) Update(p *models.Post) error {
	tags, err := tagsValue(p.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			featured_image = $5, author = $6, tags = $7,
			published = $8, published_at = $9, updated_at = NOW()
		WHERE id = $10
	`, p.Title, p.Slug, p.Content, p.Excerpt,
		p.FeaturedImage, p.Author, tags,
		p.Published, p.PublishedAt, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec("DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Count returns the total number of posts.
func (s *PostStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// UniqueSlug resolves base to a slug no other post uses. On update,
// excludeID exempts the post being edited from the collision check.
// After 50 numeric-suffix collisions the slug gets a random suffix
// instead, so resolution always terminates.
func (s *PostStore) UniqueSlug(base string, excludeID uuid.UUID) (string, error) {
	return resolveUniqueSlug(base, func(candidate string) (bool, error) {
		var exists bool
		err := s.db.QueryRow(`
			SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
		`, candidate, excludeID).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("check post slug: %w", err)
		}
		return exists, nil
	})
}
