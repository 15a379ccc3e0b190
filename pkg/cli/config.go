package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultRadius is the window radius used when LOCALEQ_RADIUS is unset.
const DefaultRadius = 8

// DefaultUpdateRepo is the GitHub repository checked for new releases.
const DefaultUpdateRepo = "Fepozopo/localeq"

// Config holds runtime settings read from the environment.
type Config struct {
	Radius         int    // LOCALEQ_RADIUS
	Workers        int    // LOCALEQ_WORKERS, 0 = GOMAXPROCS
	Debug          bool   // LOCALEQ_DEBUG
	PreviewDebug   bool   // PREVIEW_DEBUG
	PreviewBackend string // PREVIEW_BACKEND: kitty, inline, sixel or chafa
	UpdateRepo     string // LOCALEQ_UPDATE_REPO, owner/name
}

// LoadConfig loads an optional .env file from the working directory and then
// reads the configuration from the environment. Variables already set in the
// environment win over the .env file.
func LoadConfig() (Config, error) {
	// .env is optional
	_ = godotenv.Load()
	return configFromEnv()
}

// LoadConfigFile is LoadConfig with an explicit .env path, which must exist.
func LoadConfigFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return configFromEnv()
}

func configFromEnv() (Config, error) {
	cfg := Config{
		Radius:         DefaultRadius,
		PreviewBackend: strings.ToLower(strings.TrimSpace(os.Getenv("PREVIEW_BACKEND"))),
		UpdateRepo:     DefaultUpdateRepo,
	}
	var err error
	if cfg.Radius, err = envInt("LOCALEQ_RADIUS", DefaultRadius); err != nil {
		return Config{}, err
	}
	if cfg.Radius < 0 {
		return Config{}, fmt.Errorf("LOCALEQ_RADIUS must be >= 0, got %d", cfg.Radius)
	}
	if cfg.Workers, err = envInt("LOCALEQ_WORKERS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("LOCALEQ_WORKERS must be >= 0, got %d", cfg.Workers)
	}
	if cfg.Debug, err = envBool("LOCALEQ_DEBUG"); err != nil {
		return Config{}, err
	}
	if cfg.PreviewDebug, err = envBool("PREVIEW_DEBUG"); err != nil {
		return Config{}, err
	}
	if repo := strings.TrimSpace(os.Getenv("LOCALEQ_UPDATE_REPO")); repo != "" {
		if !strings.Contains(repo, "/") {
			return Config{}, fmt.Errorf("LOCALEQ_UPDATE_REPO must be owner/name, got %q", repo)
		}
		cfg.UpdateRepo = repo
	}
	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: expected integer, got %q", key, s)
	}
	return v, nil
}

func envBool(key string) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return false, nil
	}
	switch strings.ToLower(s) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s: invalid boolean %q", key, s)
}
