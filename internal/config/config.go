// Load envs from .env
// Load YAML config
// Provide default values

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

type Config struct {
	//Paths
	CachePath   string `yaml:"cache_path"`
	CookiesPath string `yaml:"cookies_path"`
	//Browser
	Headless          bool          `yaml:"headless"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	ScrollStep        int           `yaml:"scroll_step"`
	ScrollInterval    time.Duration `yaml:"scroll_interval"`
	MaxScrollSteps    int           `yaml:"max_scroll_steps"`
	//Sweep
	SweepWorkers int `yaml:"sweep_workers"`
	//Server
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
	//Collaborators, all optional
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

// CacheConfig is the part of Config the artifact store needs.
type CacheConfig struct {
	Root string
}

func (c *Config) Cache() CacheConfig {
	return CacheConfig{Root: c.CachePath}
}

// Load reads .env and configs/config.yaml and exits on invalid values.
func Load() *Config {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := LoadFile(path)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

// LoadFile builds a Config from a yaml file, env overrides and defaults.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{Headless: true}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CACHE_PATH"); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HEADLESS: %w", err)
		}
		c.Headless = headless
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.CachePath == "" {
		c.CachePath = "data/job_cache"
	}
	if c.CookiesPath == "" {
		c.CookiesPath = ".cookies"
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 30 * time.Second
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.ScrollStep <= 0 {
		c.ScrollStep = 100
	}
	if c.ScrollInterval <= 0 {
		c.ScrollInterval = 100 * time.Millisecond
	}
	if c.MaxScrollSteps <= 0 {
		c.MaxScrollSteps = 300
	}
	if c.SweepWorkers <= 0 {
		c.SweepWorkers = 1
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	if c.SweepWorkers > 8 {
		return fmt.Errorf("sweep_workers must be at most 8, got %d", c.SweepWorkers)
	}
	return nil
}
