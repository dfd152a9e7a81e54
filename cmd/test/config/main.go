package main

import (
	"fmt"

	"go-jobtracker-capture/internal/config"
)

func main() {
	fmt.Println("🔧 Testing config loading...")
	cfg := config.Load()
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Cache root: %s\n", cfg.Cache().Root)
	fmt.Printf("   Cookies Path: %s\n", cfg.CookiesPath)
	fmt.Printf("   Headless: %t\n", cfg.Headless)
	fmt.Printf("   Navigation timeout: %s, fetch timeout: %s\n", cfg.NavigationTimeout, cfg.FetchTimeout)
	fmt.Printf("   Scroll: %dpx every %s, at most %d steps\n", cfg.ScrollStep, cfg.ScrollInterval, cfg.MaxScrollSteps)
	fmt.Printf("   Sweep workers: %d\n", cfg.SweepWorkers)
	fmt.Printf("   Job store configured: %t\n", cfg.DatabaseURL != "")
	fmt.Printf("   Telegram configured: %t\n", cfg.TelegramToken != "")
}
