package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultClickUpURL  = "https://api.clickup.com/api/v2"
	DefaultPolicyFile  = "config.yml"
	DefaultConcurrency = 4
)

type Config struct {
	CanvasURL     string
	CanvasToken   string
	ClickUpURL    string
	ClickUpToken  string
	ClickUpListID string
	CourseIDs     []string
	PolicyFile    string
	Concurrency   int
	DryRun        bool
	Verbose       bool
}

func NewConfig() (*Config, error) {
	// .env laden (ignoriere Fehler wenn Datei nicht existiert)
	if os.Getenv("GODOTENV_DISABLE") == "" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Printf("⚠️  Warnung beim Laden der .env: %v\n", err)
		}
	}

	cfg := &Config{
		CanvasURL:     getEnv("CANVAS_URL", ""),
		CanvasToken:   getEnv("CANVAS_TOKEN", ""),
		ClickUpURL:    getEnv("CLICKUP_URL", DefaultClickUpURL),
		ClickUpToken:  getEnv("CLICKUP_TOKEN", ""),
		ClickUpListID: getEnv("CLICKUP_LIST_ID", ""),
		CourseIDs:     splitList(getEnv("COURSE_IDS", "")),
		PolicyFile:    getEnv("SYNC_CONFIG", DefaultPolicyFile),
		Concurrency:   getIntEnv("CONCURRENCY", DefaultConcurrency),
		DryRun:        getBoolEnv("DRY_RUN", false),
		Verbose:       getBoolEnv("VERBOSE", false),
	}

	return cfg, nil
}

// ResolveTokens füllt leere Tokens aus einer Fallback-Quelle (z.B. Keyring)
func (c *Config) ResolveTokens(lookup func(key string) (string, error)) {
	if c.CanvasToken == "" {
		if token, err := lookup(CanvasTokenKey); err == nil {
			c.CanvasToken = token
		}
	}
	if c.ClickUpToken == "" {
		if token, err := lookup(ClickUpTokenKey); err == nil {
			c.ClickUpToken = token
		}
	}
}

const (
	CanvasTokenKey  = "canvas_token"
	ClickUpTokenKey = "clickup_token"
)

func (c *Config) PrintDebugInfo() {
	fmt.Printf("🔧 Configuration loaded:\n")
	fmt.Printf("   Canvas URL: %s\n", c.CanvasURL)
	fmt.Printf("   ClickUp URL: %s\n", c.ClickUpURL)
	fmt.Printf("   ClickUp List: %s\n", c.ClickUpListID)
	fmt.Printf("   Sync Config: %s\n", c.PolicyFile)
	fmt.Printf("   Has Canvas Token: %t (length: %d)\n",
		c.CanvasToken != "", len(c.CanvasToken))
	fmt.Printf("   Has ClickUp Token: %t\n", c.ClickUpToken != "")
	fmt.Printf("   Concurrency: %d, Dry Run: %t\n", c.Concurrency, c.DryRun)
	if len(c.CourseIDs) > 0 {
		fmt.Printf("   Course Filter: %s\n", strings.Join(c.CourseIDs, ", "))
	}
}

func (c *Config) Validate() error {
	if c.CanvasURL == "" {
		return fmt.Errorf("Canvas URL fehlt (CANVAS_URL)")
	}
	if c.CanvasToken == "" {
		return fmt.Errorf("Canvas Token fehlt (CANVAS_TOKEN)")
	}
	if c.ClickUpToken == "" {
		return fmt.Errorf("ClickUp Token fehlt (CLICKUP_TOKEN)")
	}
	if c.ClickUpListID == "" {
		return fmt.Errorf("ClickUp Listen-ID fehlt (CLICKUP_LIST_ID)")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency muss mindestens 1 sein, ist %d", c.Concurrency)
	}
	return nil
}

func (c *Config) GetCanvasGraphQLURL() string {
	return strings.TrimSuffix(c.CanvasURL, "/") + "/api/graphql"
}

func (c *Config) GetClickUpBaseURL() string {
	return strings.TrimSuffix(c.ClickUpURL, "/")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
