// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all ProComm site
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Stores persist exactly what they're given; field derivation
// (slugs, publish timestamps) happens before a store call.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSlugTaken is returned when a write hits the unique slug constraint.
// Handlers map it to HTTP 409.
var ErrSlugTaken = errors.New("slug already in use")

// maxSlugAttempts bounds the numeric-suffix collision loop. Past this,
// uniqueSlug falls back to a random suffix so the loop always terminates.
const maxSlugAttempts = 50

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// randomSlugSuffix returns 8 hex characters for the collision fallback.
func randomSlugSuffix() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// resolveUniqueSlug finds a free slug starting from base, using the
// provided existence check. It tries base, base-1, base-2, ... up to
// maxSlugAttempts, then appends a random suffix.
func resolveUniqueSlug(base string, exists func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, randomSlugSuffix()), nil
}

// tagsValue encodes a tag list for the JSONB column. A nil slice is
// stored as an empty array, never as JSON null.
func tagsValue(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

// scanTags decodes a JSONB tags column.
func scanTags(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode tags: %w", err)
	}
	return nil
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count for a total row count.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
