// Command main runs the database seeder for the portfolio backend.
package main

import (
	"context"
	"flag"
	"log"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/seed"
	"portfolio/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	adminUser := flag.String("admin", "admin", "Username for the seeded admin account")
	adminPass := flag.String("password", "changeme123", "Password for the seeded admin account")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	_ = godotenv.Load()

	log.Println("Database Seeder")
	log.Println("===============")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	// Blog bodies go to remote storage when configured; otherwise they land
	// in the in-memory fallback and only the metadata rows survive the run.
	var remote storage.ObjectStore
	if cfg.S3Configured() {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.Printf("S3 initialization failed, seeding bodies to fallback storage: %v", err)
		} else {
			remote = s3Store
		}
	}

	s := seed.NewSeeder(db, storage.NewStore(remote, nil))

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(ctx, *adminUser, *adminPass); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
