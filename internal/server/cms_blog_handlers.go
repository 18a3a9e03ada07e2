package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/storage"
	"portfolio/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageSize = 5 * 1024 * 1024 // 5 MB

// ListAllPosts handles GET /api/cms/blog: all posts including drafts.
func (s *Server) ListAllPosts(c *fiber.Ctx) error {
	opts := listOptionsFromQuery(c)

	posts, total, err := s.blogRepo.List(c.Context(), opts)
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
		"total":   total,
		"page":    opts.Page,
		"limit":   opts.Limit,
	})
}

// GetPostByID handles GET /api/cms/blog/:id for the post editor.
func (s *Server) GetPostByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid blog post ID"))
	}

	post, err := s.blogRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	content, err := s.store.GetText(c.Context(), post.StorageKey)
	if err != nil {
		return respondStorageError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
		"content": content,
	})
}

// formValue returns the first value of a multipart field.
func formValue(form *multipart.Form, name string) string {
	values := form.Value[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// parseTags decodes the tags field, a JSON array of strings.
func parseTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// estimateReadTime derives minutes from word count at ~200 wpm.
func estimateReadTime(content string) int {
	minutes := len(strings.Fields(content)) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// readImageUpload validates and reads an uploaded image part: image MIME
// types only, 5 MB cap. field names the multipart field in error responses.
func readImageUpload(field string, header *multipart.FileHeader) ([]byte, string, *models.AppError) {
	if header.Size > maxImageSize {
		return nil, "", models.NewValidationError("Image exceeds the 5 MB size limit",
			models.FieldError{Field: field, Message: "Image exceeds the 5 MB size limit"})
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", models.NewValidationError("Only image uploads are allowed",
			models.FieldError{Field: field, Message: "Only image uploads are allowed"})
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	if len(data) > maxImageSize {
		return nil, "", models.NewValidationError("Image exceeds the 5 MB size limit",
			models.FieldError{Field: field, Message: "Image exceeds the 5 MB size limit"})
	}

	return data, contentType, nil
}

func imageExtension(contentType string) string {
	parts := strings.SplitN(contentType, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "jpg"
	}
	return parts[1]
}

// uploadCoverImage stores an uploaded cover and returns its locator URL.
func (s *Server) uploadCoverImage(c *fiber.Ctx, slug string, header *multipart.FileHeader) (string, error) {
	data, contentType, appErr := readImageUpload("coverImage", header)
	if appErr != nil {
		return "", appErr
	}
	data, contentType, ext := normalizeImage(data, contentType)

	key := storage.ImageKey(fmt.Sprintf("%s-%s.%s", slug, uuid.New().String(), ext))
	return s.store.UploadBinary(c.Context(), key, data, contentType)
}

// CreatePost handles POST /api/cms/blog (multipart). The body is uploaded to
// object storage before the metadata row is written, so a storage failure
// prevents row creation. A database failure after a successful upload leaves
// an orphaned object, which is tolerated: the database is the source of truth.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form data"))
	}

	title := formValue(form, "title")
	excerpt := formValue(form, "excerpt")
	content := formValue(form, "content")
	slug := formValue(form, "slug")

	var fields []models.FieldError
	if title == "" {
		fields = append(fields, models.FieldError{Field: "title", Message: "Title is required"})
	}
	if excerpt == "" {
		fields = append(fields, models.FieldError{Field: "excerpt", Message: "Excerpt is required"})
	}
	if content == "" {
		fields = append(fields, models.FieldError{Field: "content", Message: "Content is required"})
	}
	if slug == "" {
		fields = append(fields, models.FieldError{Field: "slug", Message: "Slug is required"})
	} else if err := validation.ValidateSlug(slug); err != nil {
		fields = append(fields, models.FieldError{Field: "slug", Message: err.Error()})
	}
	tags, err := parseTags(formValue(form, "tags"))
	if err != nil {
		fields = append(fields, models.FieldError{Field: "tags", Message: "Tags must be a JSON array of strings"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Validation error", fields...))
	}

	// Early duplicate check; the unique index on slug catches concurrent creates.
	if existing, err := s.blogRepo.GetBySlug(c.Context(), slug); err == nil && existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("A post with this slug already exists"))
	}

	published := formValue(form, "published") == "true"
	readTime := estimateReadTime(content)
	if raw := formValue(form, "readTime"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			readTime = parsed
		}
	}

	claims := claimsFromContext(c)

	// Key derived from slug plus a uniqueness suffix; edits reuse it.
	storageKey := storage.TextKey(fmt.Sprintf("%s-%s.md", slug, uuid.New().String()))

	if _, err := s.store.UploadText(c.Context(), storageKey, content); err != nil {
		return respondStorageError(c, err)
	}

	coverImage := ""
	if files := form.File["coverImage"]; len(files) > 0 {
		locator, err := s.uploadCoverImage(c, slug, files[0])
		if err != nil {
			if _, ok := err.(*models.AppError); ok {
				return respondRepositoryError(c, err)
			}
			return respondStorageError(c, err)
		}
		coverImage = locator
	}

	post := &models.BlogPost{
		Slug:        slug,
		Title:       title,
		Excerpt:     excerpt,
		CoverImage:  coverImage,
		StorageKey:  storageKey,
		Published:   published,
		PublishedAt: time.Now(),
		AuthorID:    claims.UserID,
		Tags:        tags,
		ReadTime:    readTime,
	}
	if err := s.blogRepo.Create(c.Context(), post); err != nil {
		return respondRepositoryError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"post":    post,
		"message": "Blog post created successfully",
	})
}

// UpdatePost handles PUT /api/cms/blog/:id (multipart). Only supplied fields
// are merged; changed content re-uploads to the same storage key; UpdatedAt
// is always refreshed.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid blog post ID"))
	}

	post, err := s.blogRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form data"))
	}

	if slug := formValue(form, "slug"); slug != "" && slug != post.Slug {
		if err := validation.ValidateSlug(slug); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Validation error",
					models.FieldError{Field: "slug", Message: err.Error()}))
		}
		if existing, err := s.blogRepo.GetBySlug(c.Context(), slug); err == nil && existing != nil {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("A post with this slug already exists"))
		}
		post.Slug = slug
	}
	if title := formValue(form, "title"); title != "" {
		post.Title = title
	}
	if excerpt := formValue(form, "excerpt"); excerpt != "" {
		post.Excerpt = excerpt
	}
	if raw := formValue(form, "tags"); raw != "" {
		tags, err := parseTags(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Validation error",
					models.FieldError{Field: "tags", Message: "Tags must be a JSON array of strings"}))
		}
		post.Tags = tags
	}
	if raw := formValue(form, "readTime"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			post.ReadTime = parsed
		}
	}
	if raw := formValue(form, "published"); raw != "" {
		published := raw == "true"
		if published && !post.Published {
			// draft -> published sets the publication timestamp
			post.PublishedAt = time.Now()
		}
		post.Published = published
	}

	if content := formValue(form, "content"); content != "" {
		if _, err := s.store.UploadText(c.Context(), post.StorageKey, content); err != nil {
			return respondStorageError(c, err)
		}
	}

	if files := form.File["coverImage"]; len(files) > 0 {
		locator, err := s.uploadCoverImage(c, post.Slug, files[0])
		if err != nil {
			if _, ok := err.(*models.AppError); ok {
				return respondRepositoryError(c, err)
			}
			return respondStorageError(c, err)
		}
		post.CoverImage = locator
	}

	if err := s.blogRepo.Update(c.Context(), post); err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
		"message": "Blog post updated successfully",
	})
}

// objectKeyFromURL extracts a storage key from a locator URL, handling both
// remote object URLs and fallback-served local ones.
func objectKeyFromURL(locator string) string {
	parsed, err := url.Parse(locator)
	if err != nil {
		return ""
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	key = strings.TrimPrefix(key, "api/storage/")
	return key
}

// DeletePost handles DELETE /api/cms/blog/:id. The database row goes first;
// storage cleanup is best-effort and never blocks the response.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid blog post ID"))
	}

	post, err := s.blogRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	if err := s.blogRepo.Delete(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}

	if err := s.store.Delete(c.Context(), post.StorageKey); err != nil {
		slog.Warn("blog body cleanup failed", "key", post.StorageKey, "error", err)
	}
	if post.CoverImage != "" {
		if key := objectKeyFromURL(post.CoverImage); key != "" {
			if err := s.store.Delete(c.Context(), key); err != nil {
				slog.Warn("cover image cleanup failed", "key", key, "error", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Blog post deleted successfully",
	})
}
