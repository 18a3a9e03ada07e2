package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"portfolio/internal/models"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// ListOptions filters and paginates blog post listings. Filters combine with
// AND when several are present.
type ListOptions struct {
	// Published, when set, exact-matches the published column.
	Published *bool
	// Tag requires the tag to be present in the post's tag set.
	Tag string
	// Search matches the substring against title or excerpt, case-insensitive.
	Search string
	Page   int
	Limit  int
}

func (o *ListOptions) normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = defaultPageSize
	}
	if o.Limit > maxPageSize {
		o.Limit = maxPageSize
	}
}

// BlogRepository defines the interface for blog post data operations.
// It persists metadata only; bodies live in object storage under StorageKey.
type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	List(ctx context.Context, opts ListOptions) ([]models.BlogPost, int64, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uint) error
	Tags(ctx context.Context) ([]string, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog post repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if post.PublishedAt.IsZero() {
		post.PublishedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("A post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Preload("Author").
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog post", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// escapeLike neutralizes LIKE wildcards in a literal so user input can only
// match itself inside a pattern. Patterns built with it must carry ESCAPE '\'.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

// filtered applies the ListOptions filters to a base query. The tag filter
// matches the quoted tag inside the JSON-serialized tag column, which is a
// containment check over the tag set.
func (r *blogRepository) filtered(ctx context.Context, opts ListOptions) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if opts.Published != nil {
		q = q.Where("published = ?", *opts.Published)
	}
	if opts.Tag != "" {
		q = q.Where(`tags LIKE ? ESCAPE '\'`, `%"`+escapeLike(opts.Tag)+`"%`)
	}
	if opts.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(opts.Search)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(excerpt) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	return q
}

// List returns one page of posts sorted by publication date descending, and
// the total count ignoring pagination.
func (r *blogRepository) List(ctx context.Context, opts ListOptions) ([]models.BlogPost, int64, error) {
	opts.normalize()

	var total int64
	if err := r.filtered(ctx, opts).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.BlogPost
	if err := r.filtered(ctx, opts).
		Preload("Author").
		Order("published_at DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return posts, total, nil
}

// Update persists the post and always refreshes UpdatedAt, regardless of
// which fields changed.
func (r *blogRepository) Update(ctx context.Context, post *models.BlogPost) error {
	post.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("A post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.BlogPost{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Tags returns the sorted set of distinct tags across all posts. The storage
// layer does not dedupe tag lists, so the merge does.
func (r *blogRepository) Tags(ctx context.Context) ([]string, error) {
	var posts []models.BlogPost
	if err := r.db.WithContext(ctx).Select("tags").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	seen := make(map[string]struct{})
	for _, post := range posts {
		for _, tag := range post.Tags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}
