package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/itcaat/olxscraper/internal/parser"
	"github.com/itcaat/olxscraper/internal/storage"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a scrape.
type Config struct {
	Origin     string
	UserAgent  string
	MinDelay   time.Duration
	MaxDelay   time.Duration
	OutputDir  string
	RulesFile  string
	ArchiveDSN string
	Verbose    bool
	Rules      parser.Rules
}

// Default returns a Config populated with the olx.in defaults.
func Default() Config {
	return Config{
		Origin:    parser.DefaultOrigin,
		UserAgent: parser.DefaultUserAgent,
		MinDelay:  1 * time.Second,
		MaxDelay:  2 * time.Second,
		OutputDir: storage.DefaultDir,
		Rules:     parser.DefaultRules(),
	}
}

// Load reads an optional .env file, then applies OLX_* environment variables
// on top of Default. A rules file named by OLX_RULES_FILE is loaded as well.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	cfg.Origin = getEnv("OLX_ORIGIN", cfg.Origin)
	cfg.UserAgent = getEnv("OLX_USER_AGENT", cfg.UserAgent)
	cfg.OutputDir = getEnv("OLX_OUTPUT_DIR", cfg.OutputDir)
	cfg.RulesFile = getEnv("OLX_RULES_FILE", cfg.RulesFile)
	cfg.ArchiveDSN = getEnv("OLX_ARCHIVE_DSN", cfg.ArchiveDSN)

	var err error
	if cfg.MinDelay, err = getEnvDuration("OLX_MIN_DELAY", cfg.MinDelay); err != nil {
		return Config{}, err
	}
	if cfg.MaxDelay, err = getEnvDuration("OLX_MAX_DELAY", cfg.MaxDelay); err != nil {
		return Config{}, err
	}
	if cfg.Verbose, err = getEnvBool("OLX_VERBOSE", cfg.Verbose); err != nil {
		return Config{}, err
	}

	if cfg.RulesFile != "" {
		if cfg.Rules, err = LoadRules(cfg.RulesFile); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// LoadRules reads extraction rules from a YAML file. Fields the file leaves
// out keep their default selectors.
func LoadRules(path string) (parser.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parser.Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	rules := parser.DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return parser.Rules{}, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return parser.Rules{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}

	return rules, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
