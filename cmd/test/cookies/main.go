package main

import (
	"fmt"
	"log"
	"os"

	"go-jobtracker-capture/internal/browser"
	"go-jobtracker-capture/internal/config"
	"go-jobtracker-capture/internal/scraper"
)

// Shows which cookie file a capture of <url> would load.
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <url>", os.Args[0])
	}
	fmt.Println("🍪 Testing cookie loading...")

	cfg := config.Load()
	host := scraper.ExtractDomain(os.Args[1])
	cookieFile := browser.CookieFileForHost(cfg.CookiesPath, host)
	if cookieFile == "" {
		fmt.Printf("ℹ️ No cookie file for %s in %s\n", host, cfg.CookiesPath)
		return
	}

	cookies, err := browser.LoadCookies(cookieFile)
	if err != nil {
		log.Fatalf("Failed to load cookies: %v", err)
	}

	fmt.Printf("✅ Loaded %d cookies from %s\n", len(cookies), cookieFile)

	if len(cookies) > 0 {
		c := cookies[0]
		fmt.Printf("\nExample cookie:\n")
		fmt.Printf("Name: %s\n", c.Name)
		fmt.Printf("Domain: %s\n", *c.Domain)
		fmt.Printf("Secure: %t\n", c.Secure != nil && *c.Secure)
	}
}
