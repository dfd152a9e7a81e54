package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go-jobtracker-capture/internal/browser"
	"go-jobtracker-capture/internal/config"
	"go-jobtracker-capture/internal/logger"
	"go-jobtracker-capture/internal/models"
	"go-jobtracker-capture/internal/scraper/generic"
)

// Renders one page with the real browser and prints what the extractor sees.
// Usage: go run ./cmd/test/browser <url>
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <url>", os.Args[0])
	}
	target := os.Args[1]

	cfg := config.Load()
	zl, err := logger.New("debug", true)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	fmt.Println("🌐 Testing render backend...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	renderer := browser.NewRenderer(browser.Options{
		Headless:          cfg.Headless,
		NavigationTimeout: cfg.NavigationTimeout,
		CookiesPath:       cfg.CookiesPath,
		Scroll: browser.ScrollOptions{
			Step:     cfg.ScrollStep,
			Interval: cfg.ScrollInterval,
			MaxSteps: cfg.MaxScrollSteps,
		},
	}, zl)

	page, err := renderer.Render(ctx, target)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	fmt.Printf("✅ Rendered %s (%d bytes of HTML)\n", page.URL, len(page.HTML))

	if len(page.Screenshot) > 0 {
		if err := os.WriteFile("render-test.png", page.Screenshot, 0644); err != nil {
			log.Printf("Failed to save screenshot: %v", err)
		} else {
			fmt.Println("📸 Screenshot saved: render-test.png")
		}
	} else {
		fmt.Println("⚠️ No screenshot")
	}

	fields := generic.NewExtractor(zl).Extract(page.HTML, page.URL, models.JobMetadata{})
	fmt.Printf("📝 Title:     %s\n", fields.Title)
	fmt.Printf("🏢 Company:   %s\n", fields.Company)
	fmt.Printf("📍 Location:  %s\n", fields.Location)
	fmt.Printf("💰 Salary:    %s\n", fields.Salary)
	fmt.Printf("🎯 Seniority: %s\n", fields.Seniority)
	fmt.Printf("🔖 Source:    %s\n", fields.SourceType)
	fmt.Printf("📄 Description: %d chars\n", len(fields.Description))
	fmt.Println("✨ Test complete!")
}
