package store

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"procomm/internal/models"
)

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-create-post-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	post := &models.Post{
		Title:   "Test Post",
		Slug:    slug,
		Content: "Full post body here.",
		Excerpt: "A short excerpt",
		Author:  "ProComm Team",
		Tags:    []string{"strategy", "media"},
	}

	created, err := s.Create(post)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Title != "Test Post" {
		t.Errorf("title: got %q, want %q", created.Title, "Test Post")
	}
	if created.Published {
		t.Error("expected new post to be a draft")
	}
	if created.PublishedAt != nil {
		t.Error("expected nil published_at for draft")
	}
	if created.Views != 0 {
		t.Errorf("views: got %d, want 0", created.Views)
	}
	if len(created.Tags) != 2 {
		t.Errorf("tags: got %v, want 2 entries", created.Tags)
	}

	// FindByID.
	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected post, got nil")
	}
	if found.Slug != slug {
		t.Errorf("slug: got %q, want %q", found.Slug, slug)
	}
	if found.Content != "Full post body here." {
		t.Errorf("content: got %q", found.Content)
	}
}

func TestPostStoreFetchPublishedBySlug(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-fetch-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	// Create draft — should NOT be fetchable by slug.
	s.Create(&models.Post{
		Title: "Draft", Slug: slug, Content: "draft", Author: "Team",
	})

	found, err := s.FetchPublishedBySlug(slug)
	if err != nil {
		t.Fatalf("FetchPublishedBySlug (draft): %v", err)
	}
	if found != nil {
		t.Error("expected nil for draft post via FetchPublishedBySlug")
	}

	// Publish it.
	db.Exec("UPDATE posts SET published = TRUE, published_at = NOW() WHERE slug = $1", slug)

	found, err = s.FetchPublishedBySlug(slug)
	if err != nil {
		t.Fatalf("FetchPublishedBySlug (published): %v", err)
	}
	if found == nil {
		t.Fatal("expected post after publishing")
	}
	if found.Views != 1 {
		t.Errorf("views after first fetch: got %d, want 1", found.Views)
	}

	// Each fetch increments the counter.
	found, _ = s.FetchPublishedBySlug(slug)
	if found.Views != 2 {
		t.Errorf("views after second fetch: got %d, want 2", found.Views)
	}

	// Not found.
	found, _ = s.FetchPublishedBySlug("nonexistent-slug-xyz")
	if found != nil {
		t.Error("expected nil for nonexistent slug")
	}
}

func TestPostStoreFetchPublishedBySlugConcurrent(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-fetch-concurrent-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	pub := &models.Post{
		Title: "Concurrent", Slug: slug, Content: "body", Author: "Team",
	}
	pub.SetPublished(true, time.Now())
	created, err := s.Create(pub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// N concurrent fetches must land exactly N increments.
	const fetchers = 20
	var wg sync.WaitGroup
	errs := make(chan error, fetchers)
	for i := 0; i < fetchers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.FetchPublishedBySlug(slug); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("FetchPublishedBySlug: %v", err)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Views != fetchers {
		t.Errorf("views after %d concurrent fetches: got %d, want %d", fetchers, found.Views, fetchers)
	}
}

func TestPostStoreListPublished(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	tag := "test-tag-" + uuid.NewString()[:8]
	slug1 := "test-list-pub-" + uuid.NewString()[:8]
	slug2 := "test-list-draft-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug1, slug2) })

	now := time.Now()
	pub := &models.Post{
		Title: "Visible", Slug: slug1, Content: "body", Author: "Team",
		Tags: []string{tag},
	}
	pub.SetPublished(true, now)
	s.Create(pub)
	s.Create(&models.Post{
		Title: "Hidden", Slug: slug2, Content: "body", Author: "Team",
		Tags: []string{tag},
	})

	posts, total, err := s.ListPublished(tag, 20, 0)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if total != 1 {
		t.Errorf("total: got %d, want 1", total)
	}
	if len(posts) != 1 {
		t.Fatalf("posts: got %d, want 1", len(posts))
	}
	if posts[0].Slug != slug1 {
		t.Errorf("slug: got %q, want %q", posts[0].Slug, slug1)
	}
	// List payloads omit the body.
	if posts[0].Content != "" {
		t.Errorf("expected empty content in list, got %q", posts[0].Content)
	}
}

func TestPostStoreListAll(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-listall-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	s.Create(&models.Post{
		Title: "Admin Draft", Slug: slug, Content: "body", Author: "Team",
	})

	posts, total, err := s.ListAll(100, 0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if total < 1 {
		t.Error("expected at least 1 post")
	}

	found := false
	for _, p := range posts {
		if p.Slug == slug {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected draft post in admin list")
	}
}

func TestPostStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-update-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	created, _ := s.Create(&models.Post{
		Title: "Original", Slug: slug, Content: "original", Author: "Team",
	})

	created.Title = "Updated Title"
	created.Content = "updated body"
	created.SetPublished(true, time.Now())

	if err := s.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found.Title != "Updated Title" {
		t.Errorf("title: got %q, want %q", found.Title, "Updated Title")
	}
	if !found.Published {
		t.Error("expected post to be published after update")
	}
	if found.PublishedAt == nil {
		t.Error("expected published_at set after publishing")
	}
}

func TestPostStoreSlugConflict(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-conflict-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	if _, err := s.Create(&models.Post{
		Title: "First", Slug: slug, Content: "body", Author: "Team",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := s.Create(&models.Post{
		Title: "Second", Slug: slug, Content: "body", Author: "Team",
	})
	if err != ErrSlugTaken {
		t.Errorf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPostStoreUniqueSlug(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	base := "test-unique-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, base, base+"-1") })

	// Free slug resolves to itself.
	resolved, err := s.UniqueSlug(base, uuid.Nil)
	if err != nil {
		t.Fatalf("UniqueSlug: %v", err)
	}
	if resolved != base {
		t.Errorf("resolved: got %q, want %q", resolved, base)
	}

	// Taken slug gets a numeric suffix.
	created, _ := s.Create(&models.Post{
		Title: "Taken", Slug: base, Content: "body", Author: "Team",
	})

	resolved, err = s.UniqueSlug(base, uuid.Nil)
	if err != nil {
		t.Fatalf("UniqueSlug: %v", err)
	}
	if resolved != base+"-1" {
		t.Errorf("resolved: got %q, want %q", resolved, base+"-1")
	}

	// The owning record keeps its own slug on update.
	resolved, err = s.UniqueSlug(base, created.ID)
	if err != nil {
		t.Fatalf("UniqueSlug (exclude): %v", err)
	}
	if resolved != base {
		t.Errorf("resolved with exclusion: got %q, want %q", resolved, base)
	}
}

func TestPostStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-delete-" + uuid.NewString()[:8]

	created, _ := s.Create(&models.Post{
		Title: "Delete", Slug: slug, Content: "body", Author: "Team",
	})

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found != nil {
		t.Error("expected nil after delete")
	}
}
