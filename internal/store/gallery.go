// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"procomm/internal/models"
)

const galleryColumns = `id, title, slug, description, image_url, thumb_url,
       category, tags, featured, sort_order, published, published_at,
       views, created_at, updated_at`

// GalleryStore handles all gallery-image database operations.
type GalleryStore struct {
	db *sql.DB
}

// NewGalleryStore creates a new GalleryStore with the given database connection.
func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

func scanGalleryImage(row interface{ Scan(...any) error }) (*models.GalleryImage, error) {
	g := &models.GalleryImage{}
	var rawTags []byte
	err := row.Scan(
		&g.ID, &g.Title, &g.Slug, &g.Description, &g.ImageURL, &g.ThumbURL,
		&g.Category, &rawTags, &g.Featured, &g.SortOrder, &g.Published,
		&g.PublishedAt, &g.Views, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := scanTags(rawTags, &g.Tags); err != nil {
		return nil, err
	}
	return g, nil
}

// ListPublished returns one page of published gallery images: featured
// first, then by explicit sort order, then newest. Category and
// featured-only filters are optional.
func (s *GalleryStore) ListPublished(category models.GalleryCategory, featuredOnly bool, limit, offset int) ([]models.GalleryImage, int, error) {
	where := "published = TRUE"
	args := []any{}
	if category != "" {
		args = append(args, category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if featuredOnly {
		where += " AND featured = TRUE"
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gallery_images WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count gallery images: %w", err)
	}

	listArgs := append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s FROM gallery_images
		WHERE %s
		ORDER BY featured DESC, sort_order ASC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, galleryColumns, where, len(args)+1, len(args)+2)

	rows, err := s.db.Query(query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var images []models.GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan gallery image: %w", err)
		}
		images = append(images, *g)
	}
	return images, total, rows.Err()
}

// ListAll returns one page of gallery images regardless of publication
// state, most recently updated first. Used by the admin listing.
func (s *GalleryStore) ListAll(limit, offset int) ([]models.GalleryImage, int, error) {
	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gallery_images").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count gallery images: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+galleryColumns+` FROM gallery_images
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var images []models.GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan gallery image: %w", err)
		}
		images = append(images, *g)
	}
	return images, total, rows.Err()
}

// FindByID retrieves a gallery image by its UUID. Returns nil if not found.
func (s *GalleryStore) FindByID(id uuid.UUID) (*models.GalleryImage, error) {
	g, err := scanGalleryImage(s.db.QueryRow(
		"SELECT "+galleryColumns+" FROM gallery_images WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find gallery image by id: %w", err)
	}
	return g, nil
}

// Create inserts a new gallery image and returns it with the generated
// ID and timestamps.
func (s *GalleryStore) Create(g *models.GalleryImage) (*models.GalleryImage, error) {
	tags, err := tagsValue(g.Tags)
	if err != nil {
		return nil, err
	}

	created, err := scanGalleryImage(s.db.QueryRow(`
		INSERT INTO gallery_images (title, slug, description, image_url,
		                            thumb_url, category, tags, featured,
		                            sort_order, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+galleryColumns,
		g.Title, g.Slug, g.Description, g.ImageURL,
		g.ThumbURL, g.Category, tags, g.Featured,
		g.SortOrder, g.Published, g.PublishedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create gallery image: %w", err)
	}
	return created, nil
}

// Update rewrites an existing gallery image's mutable columns.
func (s *GalleryStore) Update(g *models.GalleryImage) error {
	tags, err := tagsValue(g.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE gallery_images SET
			title = $1, slug = $2, description = $3, image_url = $4,
			thumb_url = $5, category = $6, tags = $7, featured = $8,
			sort_order = $9, published = $10, published_at = $11,
			updated_at = NOW()
		WHERE id = $12
	`, g.Title, g.Slug, g.Description, g.ImageURL,
		g.ThumbURL, g.Category, tags, g.Featured,
		g.SortOrder, g.Published, g.PublishedAt, g.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("update gallery image: %w", err)
	}
	return nil
}

// Delete removes a gallery image by ID.
func (s *GalleryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec("DELETE FROM gallery_images WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	return nil
}

// Count returns the total number of gallery images.
func (s *GalleryStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gallery_images").Scan(&count); err != nil {
		return 0, fmt.Errorf("count gallery images: %w", err)
	}
	return count, nil
}

// UniqueSlug resolves base to a slug no other gallery image uses.
func (s *GalleryStore) UniqueSlug(base string, excludeID uuid.UUID) (string, error) {
	return resolveUniqueSlug(base, func(candidate string) (bool, error) {
		var exists bool
		err := s.db.QueryRow(`
			SELECT EXISTS (SELECT 1 FROM gallery_images WHERE slug = $1 AND id <> $2)
		`, candidate, excludeID).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("check gallery slug: %w", err)
		}
		return exists, nil
	})
}
