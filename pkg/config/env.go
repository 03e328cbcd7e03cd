package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/playforge/refkit/pkg/log"
)

// Defaults applied when the corresponding variable is unset
const (
	DefaultCacheTTL        = 30 * time.Minute
	DefaultMaxFileSize     = 50 * 1024
	DefaultReferenceBudget = 24000
	DefaultKnownReposPath  = "known-repos.json"
	DefaultTemplatesDir    = "templates"
)

// Environment holds validated environment configuration
type Environment struct {
	GitHubToken     string
	CacheTTL        time.Duration
	MaxFileSize     int
	ReferenceBudget int
	KnownReposPath  string
	TemplatesDir    string
	Debug           bool
}

// Validate checks and validates all environment variables
func Validate(logger *log.Logger) (*Environment, error) {
	env := &Environment{
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		CacheTTL:        DefaultCacheTTL,
		MaxFileSize:     DefaultMaxFileSize,
		ReferenceBudget: DefaultReferenceBudget,
		KnownReposPath:  os.Getenv("KNOWN_REPOS_PATH"),
		TemplatesDir:    os.Getenv("TEMPLATES_DIR"),
		Debug:           os.Getenv("DEBUG") == "true",
	}

	// Token is optional: unauthenticated GitHub calls work but are rate-limited harder
	if env.GitHubToken == "" {
		logger.Warning("GITHUB_TOKEN not set, using unauthenticated GitHub API access")
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		env.CacheTTL = ttl
	}

	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid MAX_FILE_SIZE: %q", v)
		}
		env.MaxFileSize = size
	}

	if v := os.Getenv("REFERENCE_BUDGET"); v != "" {
		budget, err := strconv.Atoi(v)
		if err != nil || budget <= 0 {
			return nil, fmt.Errorf("invalid REFERENCE_BUDGET: %q", v)
		}
		env.ReferenceBudget = budget
	}

	if env.KnownReposPath == "" {
		env.KnownReposPath = DefaultKnownReposPath
	}
	if env.TemplatesDir == "" {
		env.TemplatesDir = DefaultTemplatesDir
	}

	return env, nil
}
