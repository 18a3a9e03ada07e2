package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"portfolio/internal/database"
	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func seedAuthor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Username: "author",
		Password: "hashed",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, slug string, published bool, tags []string, publishedAt time.Time) *models.BlogPost {
	t.Helper()
	post := &models.BlogPost{
		Slug:        slug,
		Title:       "Title " + slug,
		Excerpt:     "Excerpt for " + slug,
		StorageKey:  "blog/" + slug + ".md",
		Published:   published,
		PublishedAt: publishedAt,
		AuthorID:    authorID,
		Tags:        tags,
		ReadTime:    3,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestBlogList_PublishedFilter(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedPost(t, db, author.ID, "live-one", true, nil, now)
	seedPost(t, db, author.ID, "live-two", true, nil, now.Add(-time.Hour))
	seedPost(t, db, author.ID, "draft", false, nil, now)

	published := true
	posts, total, err := repo.List(ctx, ListOptions{Published: &published})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, posts, 2)
	// newest first
	assert.Equal(t, "live-one", posts[0].Slug)
	assert.Equal(t, "live-two", posts[1].Slug)

	// no filter includes the draft
	posts, total, err = repo.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, posts, 3)
}

func TestBlogList_TagFilter(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedPost(t, db, author.ID, "only-go", true, []string{"go"}, now)
	seedPost(t, db, author.ID, "only-redis", true, []string{"redis"}, now)
	seedPost(t, db, author.ID, "both", true, []string{"go", "redis"}, now)

	posts, total, err := repo.List(ctx, ListOptions{Tag: "go"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	slugs := []string{posts[0].Slug, posts[1].Slug}
	assert.ElementsMatch(t, []string{"only-go", "both"}, slugs)

	_, total, err = repo.List(ctx, ListOptions{Tag: "rust"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestBlogList_TagFilterEscapesWildcards(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedPost(t, db, author.ID, "percent", true, []string{"100% coverage"}, now)
	seedPost(t, db, author.ID, "underscore", true, []string{"go_modules"}, now)
	seedPost(t, db, author.ID, "plain", true, []string{"golmodules", "100x coverage"}, now)

	posts, total, err := repo.List(ctx, ListOptions{Tag: "100% coverage"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "percent", posts[0].Slug)

	// "_" must not act as a single-character wildcard and match "golmodules".
	posts, total, err = repo.List(ctx, ListOptions{Tag: "go_modules"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "underscore", posts[0].Slug)

	_, total, err = repo.List(ctx, ListOptions{Tag: "%"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestBlogList_Search(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	db.Create(&models.BlogPost{
		Slug: "caching", Title: "Practical Caching with Redis",
		Excerpt: "Cache-aside patterns", StorageKey: "blog/caching.md",
		Published: true, PublishedAt: time.Now(), AuthorID: author.ID,
	})
	db.Create(&models.BlogPost{
		Slug: "layout", Title: "Structuring Go Services",
		Excerpt: "Package layout decisions", StorageKey: "blog/layout.md",
		Published: true, PublishedAt: time.Now(), AuthorID: author.ID,
	})

	// case-insensitive, matches title or excerpt
	tests := []struct {
		search string
		want   int64
	}{
		{"CACHING", 1},
		{"layout", 1}, // excerpt match
		{"services", 1},
		{"nomatch", 0},
	}
	for _, tt := range tests {
		_, total, err := repo.List(ctx, ListOptions{Search: tt.search})
		require.NoError(t, err)
		assert.EqualValues(t, tt.want, total, "search %q", tt.search)
	}
}

func TestBlogList_Pagination(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		seedPost(t, db, author.ID, fmt.Sprintf("post-%d", i), true, nil,
			base.Add(-time.Duration(i)*time.Hour))
	}

	posts, total, err := repo.List(ctx, ListOptions{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, posts, 2)
	assert.Equal(t, "post-2", posts[0].Slug)
	assert.Equal(t, "post-3", posts[1].Slug)

	// out-of-range page is empty but total is unchanged
	posts, total, err = repo.List(ctx, ListOptions{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Empty(t, posts)

	// invalid values fall back to defaults
	posts, _, err = repo.List(ctx, ListOptions{Page: -1, Limit: 0})
	require.NoError(t, err)
	assert.Len(t, posts, 5)
}

func TestBlogTags_DedupedAndSorted(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)

	now := time.Now()
	seedPost(t, db, author.ID, "first", true, []string{"b", "a"}, now)
	seedPost(t, db, author.ID, "second", false, []string{"c", "b"}, now)

	tags, err := repo.Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tags)
}

func TestBlogUpdate_BumpsUpdatedAt(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, author.ID, "evolving", true, nil, time.Now())
	before := post.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	post.Title = "Renamed"
	require.NoError(t, repo.Update(ctx, post))

	reloaded, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Title)
	assert.True(t, reloaded.UpdatedAt.After(before))
}

func TestBlogGetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlogRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestBlogDelete_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, author.ID, "gone", true, nil, time.Now())
	require.NoError(t, repo.Delete(ctx, post.ID))
	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	require.Error(t, err)
}

func TestBlogCreate_DuplicateSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	seedPost(t, db, author.ID, "taken", true, nil, time.Now())

	err := repo.Create(ctx, &models.BlogPost{
		Slug:       "taken",
		Title:      "Duplicate",
		StorageKey: "blog/taken-again.md",
		AuthorID:   author.ID,
	})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestBlogUpdate_DuplicateSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db)
	repo := NewBlogRepository(db)
	ctx := context.Background()

	seedPost(t, db, author.ID, "first", true, nil, time.Now())
	second := seedPost(t, db, author.ID, "second", true, nil, time.Now())

	second.Slug = "first"
	err := repo.Update(ctx, second)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}
