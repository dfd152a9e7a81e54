package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-jobtracker-capture/internal/config"
	"go-jobtracker-capture/internal/database"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set. Please check your .env file.")
	}

	fmt.Println("Attempting to connect to PostgreSQL...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to the database: %v", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("❌ Schema check failed: %v", err)
	}

	jobs, err := repo.ListJobs(ctx)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}

	captured := 0
	withLink := 0
	for _, j := range jobs {
		if j.Parsed {
			captured++
		}
		if j.Link != "" {
			withLink++
		}
	}

	fmt.Println("✅ Successfully connected to the job store!")
	fmt.Printf("📦 Jobs: %d, with link: %d, captured: %d\n", len(jobs), withLink, captured)
}
