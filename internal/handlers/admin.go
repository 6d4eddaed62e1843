// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"procomm/internal/cache"
	"procomm/internal/mailer"
	"procomm/internal/models"
	"procomm/internal/storage"
	"procomm/internal/store"
)

// Admin groups the management API handlers and their dependencies.
type Admin struct {
	postStore     *store.PostStore
	galleryStore  *store.GalleryStore
	contactStore  *store.ContactStore
	userStore     *store.UserStore
	cacheLog      *store.CacheLogStore
	invalidator   *cache.Invalidator
	storageClient *storage.Client
	mail          *mailer.Mailer
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storageClient and mail may be nil when S3 or SMTP is not configured.
func NewAdmin(postStore *store.PostStore, galleryStore *store.GalleryStore, contactStore *store.ContactStore, userStore *store.UserStore, cacheLog *store.CacheLogStore, invalidator *cache.Invalidator, storageClient *storage.Client, mail *mailer.Mailer) *Admin {
	return &Admin{
		postStore:     postStore,
		galleryStore:  galleryStore,
		contactStore:  contactStore,
		userStore:     userStore,
		cacheLog:      cacheLog,
		invalidator:   invalidator,
		storageClient: storageClient,
		mail:          mail,
	}
}

// Dashboard reports content counts and recent cache activity for the
// admin overview screen.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	postCount, _ := a.postStore.Count()
	galleryCount, _ := a.galleryStore.Count()
	contactTotal, _ := a.contactStore.Count()
	contactNew, _ := a.contactStore.CountByStatus(models.ContactStatusNew)

	invalidations, err := a.cacheLog.RecentEntries(10)
	if err != nil {
		slog.Error("load cache log failed", "error", err)
	}
	if invalidations == nil {
		invalidations = []store.CacheLogEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":                postCount,
		"gallery_images":       galleryCount,
		"contacts":             contactTotal,
		"contacts_new":         contactNew,
		"recent_invalidations": invalidations,
	})
}

// CachePurge clears cached public responses. The scope is "all" or a
// content kind ("blog", "gallery").
func (a *Admin) CachePurge(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Scope string `json:"scope"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Scope == "" {
		input.Scope = "all"
	}

	switch input.Scope {
	case "all":
		a.invalidator.PurgeAll(r.Context())
	case cache.KindBlog, cache.KindGallery:
		a.invalidator.ContentChanged(input.Scope, uuid.Nil, "purge")
	default:
		writeError(w, http.StatusBadRequest, "unknown scope")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "purged", "scope": input.Scope})
}
