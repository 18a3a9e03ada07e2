// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"portfolio/internal/auth"
	"portfolio/internal/models"
	"portfolio/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder populates the database with demo portfolio content.
type Seeder struct {
	db    *gorm.DB
	store *storage.Store
}

// NewSeeder creates a seeder. Blog bodies are written through the store, so
// without remote storage configured they only live for the seeder process.
func NewSeeder(db *gorm.DB, store *storage.Store) *Seeder {
	return &Seeder{db: db, store: store}
}

// ClearAll removes all seedable content. Ordered so child rows go first.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.BlogPost{},
		&models.ContactMessage{},
		&models.Skill{},
		&models.SkillGroup{},
		&models.Service{},
		&models.Project{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// SeedAdmin creates the initial admin account and returns it.
func (s *Seeder) SeedAdmin(username, password string) (*models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &models.User{
		Username: username,
		Password: hashed,
		Name:     "Site Admin",
		Email:    username + "@example.com",
		Role:     models.RoleAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	log.Printf("Created admin user %q (ID: %d)", admin.Username, admin.ID)
	return admin, nil
}

// SeedProjects inserts the demo project portfolio.
func (s *Seeder) SeedProjects(owner *models.User) error {
	projects := []models.Project{
		{
			Title:       "Realtime Analytics Dashboard",
			Description: "Streaming metrics dashboard with sub-second chart updates over WebSockets.",
			Image:       "https://images.example.com/projects/analytics.png",
			Category:    "web",
			Tags:        []string{"Go", "React", "WebSockets"},
			GithubLink:  "https://github.com/example/analytics-dashboard",
			DemoLink:    "https://analytics.example.com",
			Featured:    true,
		},
		{
			Title:       "Inventory Sync Service",
			Description: "Background service reconciling warehouse inventory across three vendor APIs.",
			Image:       "https://images.example.com/projects/inventory.png",
			Category:    "backend",
			Tags:        []string{"Go", "PostgreSQL", "Redis"},
			GithubLink:  "https://github.com/example/inventory-sync",
		},
		{
			Title:       "Recipe Box Mobile App",
			Description: "Offline-first recipe manager with photo import and grocery list generation.",
			Image:       "https://images.example.com/projects/recipebox.png",
			Category:    "mobile",
			Tags:        []string{"React Native", "SQLite"},
			DemoLink:    "https://recipebox.example.com",
		},
	}

	for i := range projects {
		projects[i].UserID = &owner.ID
		if err := s.db.Create(&projects[i]).Error; err != nil {
			return fmt.Errorf("creating project %q: %w", projects[i].Title, err)
		}
	}

	log.Printf("Created %d projects", len(projects))
	return nil
}

// SeedServices inserts the demo service offerings.
func (s *Seeder) SeedServices(owner *models.User) error {
	services := []models.Service{
		{
			Title:           "Backend Development",
			Description:     "API design and implementation with a focus on reliability and clear contracts.",
			Icon:            "server",
			IconBgColor:     "#1d4ed8",
			Features:        []string{"REST and gRPC APIs", "Database design", "Load testing"},
			Price:           "from $4,000",
			EngagementModel: "project",
			Popular:         true,
		},
		{
			Title:           "Performance Audits",
			Description:     "Profiling and tuning of existing services, with a prioritized findings report.",
			Icon:            "gauge",
			IconBgColor:     "#b45309",
			Features:        []string{"Profiling", "Query analysis", "Caching strategy"},
			Price:           "from $1,500",
			EngagementModel: "fixed",
		},
		{
			Title:           "Technical Advising",
			Description:     "Ongoing architecture and hiring guidance for early-stage teams.",
			Icon:            "compass",
			IconBgColor:     "#047857",
			Features:        []string{"Architecture review", "Code review", "Hiring support"},
			Price:           "$200/hr",
			EngagementModel: "retainer",
		},
	}

	for i := range services {
		services[i].UserID = &owner.ID
		if err := s.db.Create(&services[i]).Error; err != nil {
			return fmt.Errorf("creating service %q: %w", services[i].Title, err)
		}
	}

	log.Printf("Created %d services", len(services))
	return nil
}

// SeedSkills inserts the demo skill groups with their member skills.
func (s *Seeder) SeedSkills() error {
	groups := []models.SkillGroup{
		{
			Title:       "Languages",
			Icon:        "code",
			IconBgColor: "#7c3aed",
			Skills: []models.Skill{
				{Name: "Go", Color: "#00ADD8"},
				{Name: "TypeScript", Color: "#3178C6"},
				{Name: "SQL", Color: "#336791"},
			},
		},
		{
			Title:       "Infrastructure",
			Icon:        "cloud",
			IconBgColor: "#0ea5e9",
			Skills: []models.Skill{
				{Name: "PostgreSQL", Color: "#336791"},
				{Name: "Redis", Color: "#DC382D"},
				{Name: "AWS", Color: "#FF9900"},
				{Name: "Docker", Color: "#2496ED"},
			},
		},
	}

	for i := range groups {
		if err := s.db.Create(&groups[i]).Error; err != nil {
			return fmt.Errorf("creating skill group %q: %w", groups[i].Title, err)
		}
	}

	log.Printf("Created %d skill groups", len(groups))
	return nil
}

type demoPost struct {
	slug      string
	title     string
	excerpt   string
	tags      []string
	published bool
	body      string
}

var demoPosts = []demoPost{
	{
		slug:      "structuring-go-services",
		title:     "Structuring Go Services for Change",
		excerpt:   "Package layout decisions that keep a growing service easy to modify.",
		tags:      []string{"go", "architecture"},
		published: true,
		body: `# Structuring Go Services for Change

Most layout advice optimizes for the first week of a project. This post is
about the second year: where handlers, repositories and domain types should
live once the service has grown past a handful of endpoints.

## Keep the domain in the middle

Repositories accept and return domain structs, never transport types...`,
	},
	{
		slug:      "practical-caching-with-redis",
		title:     "Practical Caching with Redis",
		excerpt:   "Cache-aside patterns that degrade gracefully when Redis is down.",
		tags:      []string{"redis", "performance"},
		published: true,
		body: `# Practical Caching with Redis

A cache that takes the site down when it is unreachable is worse than no
cache. Every cache call in this codebase treats Redis as optional...`,
	},
	{
		slug:      "draft-notes-on-object-storage",
		title:     "Notes on Object Storage",
		excerpt:   "Working notes on storing large blobs outside the relational database.",
		tags:      []string{"storage"},
		published: false,
		body: `# Notes on Object Storage

Draft. Rows stay small, bodies go to the object store...`,
	},
}

// SeedBlogPosts writes post bodies through the store and creates their rows.
func (s *Seeder) SeedBlogPosts(ctx context.Context, author *models.User) error {
	for _, p := range demoPosts {
		key := storage.TextKey(fmt.Sprintf("%s-%s.md", p.slug, uuid.New().String()))
		if _, err := s.store.UploadText(ctx, key, p.body); err != nil {
			return fmt.Errorf("uploading body for %q: %w", p.slug, err)
		}

		post := models.BlogPost{
			Slug:        p.slug,
			Title:       p.title,
			Excerpt:     p.excerpt,
			StorageKey:  key,
			Published:   p.published,
			PublishedAt: time.Now(),
			AuthorID:    author.ID,
			Tags:        p.tags,
			ReadTime:    3,
		}
		if err := s.db.Create(&post).Error; err != nil {
			return fmt.Errorf("creating post %q: %w", p.slug, err)
		}
	}

	log.Printf("Created %d blog posts", len(demoPosts))
	return nil
}

// Run executes the full seed sequence.
func (s *Seeder) Run(ctx context.Context, adminUsername, adminPassword string) error {
	admin, err := s.SeedAdmin(adminUsername, adminPassword)
	if err != nil {
		return err
	}
	if err := s.SeedProjects(admin); err != nil {
		return err
	}
	if err := s.SeedServices(admin); err != nil {
		return err
	}
	if err := s.SeedSkills(); err != nil {
		return err
	}
	return s.SeedBlogPosts(ctx, admin)
}
