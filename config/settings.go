// Package config provides application settings loaded from environment
// variables and the provider credential file read at service start.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Settings holds all application configuration.
type Settings struct {
	Server    ServerConfig
	Bootstrap BootstrapConfig
}

// ServerConfig holds summarization service configuration.
type ServerConfig struct {
	Addr            string // listen address
	CredentialsPath string // config.json with provider credentials
	HistoryDBPath   string // sqlite summary history ("" disables)
}

// BootstrapConfig holds orchestrator configuration.
type BootstrapConfig struct {
	ProjectRoot      string
	InstallRoot      string
	AddinDir         string
	NodeVersion      string
	InstallAttempts  int
	InstallDelay     time.Duration
	SecondaryTimeout time.Duration
	PrimaryEntry     string // "" means re-exec the current binary with "serve"
}

// New creates settings, loading values from environment variables.
// Returns an error if an environment variable contains an invalid value.
func New() (Settings, error) {
	root := os.Getenv("SUMMARIZER_ROOT")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Settings{}, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}

	attempts, err := getEnvInt("SUMMARIZER_INSTALL_ATTEMPTS", 3)
	if err != nil {
		return Settings{}, err
	}

	delay, err := getEnvDuration("SUMMARIZER_INSTALL_DELAY", 5*time.Second)
	if err != nil {
		return Settings{}, err
	}

	secondaryTimeout, err := getEnvDuration("SUMMARIZER_SECONDARY_TIMEOUT", 60*time.Second)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Server: ServerConfig{
			Addr:            getEnv("SUMMARIZER_ADDR", ":5000"),
			CredentialsPath: getEnv("SUMMARIZER_CONFIG", filepath.Join(root, "config.json")),
			HistoryDBPath:   getEnv("SUMMARIZER_HISTORY_DB", filepath.Join(root, ".summarizer", "history.db")),
		},
		Bootstrap: BootstrapConfig{
			ProjectRoot:      root,
			InstallRoot:      getEnv("SUMMARIZER_INSTALL_ROOT", filepath.Join(root, ".summarizer", "toolchain")),
			AddinDir:         getEnv("SUMMARIZER_ADDIN_DIR", filepath.Join(root, "addin")),
			NodeVersion:      getEnv("SUMMARIZER_NODE_VERSION", "23"),
			InstallAttempts:  attempts,
			InstallDelay:     delay,
			SecondaryTimeout: secondaryTimeout,
			PrimaryEntry:     os.Getenv("SUMMARIZER_PRIMARY_ENTRY"),
		},
	}, nil
}

// MustNew creates settings, panicking on invalid environment values.
// Use this only when configuration errors should be fatal.
func MustNew() Settings {
	settings, err := New()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// Environment variable helpers with proper error handling

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return d, nil
}
