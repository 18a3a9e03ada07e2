package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"portfolio/internal/cache"
	"portfolio/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withCache points the cache package at a miniredis instance so listing
// endpoints exercise the cache-aside path instead of the nil-client bypass.
func withCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := cache.Client
	cache.Client = client
	t.Cleanup(func() {
		cache.Client = prev
		_ = client.Close()
	})
}

func seedProject(t *testing.T, s *Server, title string, featured bool) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:       title,
		Description: "Description of " + title,
		Image:       "https://images.example.com/p.png",
		Category:    "web",
		Tags:        []string{"go"},
		Featured:    featured,
	}
	require.NoError(t, s.db.Create(project).Error)
	return project
}

func TestGetProjects_FeaturedFirst(t *testing.T) {
	s, app := newTestServer(t)

	seedProject(t, s, "Ordinary", false)
	seedProject(t, s, "Starred", true)

	req := httptest.NewRequest("GET", "/api/projects", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	respBody := decodeBody(t, resp)
	projects, ok := respBody["projects"].([]interface{})
	require.True(t, ok)
	require.Len(t, projects, 2)

	first := projects[0].(map[string]interface{})
	assert.Equal(t, "Starred", first["title"])
}

func TestGetProjects_CacheAsideAndInvalidation(t *testing.T) {
	s, app := newTestServer(t)
	withCache(t)
	_, token := createAdmin(t, s)

	seedProject(t, s, "First", false)

	listProjects := func() []interface{} {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest("GET", "/api/projects", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		projects, ok := decodeBody(t, resp)["projects"].([]interface{})
		require.True(t, ok)
		return projects
	}

	// First read populates the cache.
	require.Len(t, listProjects(), 1)

	// A row inserted behind the cache's back stays invisible while the
	// cached listing is live.
	seedProject(t, s, "Second", false)
	require.Len(t, listProjects(), 1)

	// A CMS mutation invalidates the key, so the next read hits the database.
	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Third",
		"description": "Created through the CMS",
		"image":       "https://images.example.com/third.png",
		"category":    "web",
	})
	req := httptest.NewRequest("POST", "/api/cms/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Len(t, listProjects(), 3)
}

func TestCreateProject(t *testing.T) {
	s, app := newTestServer(t)
	admin, token := createAdmin(t, s)

	payload := map[string]interface{}{
		"title":       "New Project",
		"description": "Does things",
		"image":       "https://images.example.com/new.png",
		"category":    "backend",
		"featured":    true,
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", "/api/cms/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var row models.Project
	require.NoError(t, s.db.Where("title = ?", "New Project").First(&row).Error)
	assert.True(t, row.Featured)
	// omitted tags default to an empty set, not null
	assert.NotNil(t, row.Tags)
	// ownership is taken from the token, not the body
	require.NotNil(t, row.UserID)
	assert.Equal(t, admin.ID, *row.UserID)
}

func TestCreateProject_MissingFields(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s)

	body, _ := json.Marshal(map[string]string{"title": "Only a title"})
	req := httptest.NewRequest("POST", "/api/cms/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	respBody := decodeBody(t, resp)
	fieldErrors, ok := respBody["errors"].([]interface{})
	require.True(t, ok)
	assert.Len(t, fieldErrors, 3) // description, image, category
}

func TestUpdateProject_PartialMerge(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s)

	project := seedProject(t, s, "Before", false)

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "After",
		"featured": true,
	})
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/cms/projects/%d", project.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Project
	require.NoError(t, s.db.First(&reloaded, project.ID).Error)
	assert.Equal(t, "After", reloaded.Title)
	assert.True(t, reloaded.Featured)
	assert.Equal(t, project.Description, reloaded.Description)
	assert.Equal(t, project.Category, reloaded.Category)
}

func TestDeleteProject(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s)

	project := seedProject(t, s, "Doomed", false)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/cms/projects/%d", project.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	s.db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	// unknown id is a 404
	req = httptest.NewRequest("DELETE", "/api/cms/projects/999", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetProject_BadID(t *testing.T) {
	_, app := newTestServer(t)

	for _, path := range []string{"/api/projects/abc", "/api/projects/0"} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "path %s", path)
	}
}
