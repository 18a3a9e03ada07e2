package server

import (
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// listOptionsFromQuery parses the shared blog listing query parameters.
func listOptionsFromQuery(c *fiber.Ctx) repository.ListOptions {
	opts := repository.ListOptions{
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
	}
	if published := c.Query("published"); published != "" {
		value := published == "true"
		opts.Published = &value
	}
	return opts
}

// GetPublishedPosts handles GET /api/blog. The public listing never exposes
// drafts regardless of query parameters.
func (s *Server) GetPublishedPosts(c *fiber.Ctx) error {
	opts := listOptionsFromQuery(c)
	published := true
	opts.Published = &published

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

// GetBlogTags handles GET /api/blog/tags and GET /api/cms/blog/tags.
func (s *Server) GetBlogTags(c *fiber.Ctx) error {
	tags, err := s.blogRepo.Tags(c.Context())
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tags":    tags,
	})
}

// GetPostBySlug handles GET /api/blog/:slug, inlining the markdown body from
// object storage. Draft posts are invisible here.
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	post, err := s.blogRepo.GetBySlug(c.Context(), slug)
	if err != nil {
		return respondRepositoryError(c, err)
	}
	if !post.Published {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Blog post", slug))
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
