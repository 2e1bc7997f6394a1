package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-servicemanager/framework/container"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Log       LogConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

// ContainerConfig tunes the service container.
type ContainerConfig struct {
	DuplicatePolicy string // replace | reject
	MaxDepth        int
	AutoAlias       bool
	// Manifest is the path of a YAML alias manifest; empty disables it.
	Manifest string
	// WatchManifest re-applies the manifest while serving when it changes.
	WatchManifest bool
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // json | console
}

type TracingConfig struct {
	Enabled      bool
	Exporter     string // none | stdout | otlp
	OTLPEndpoint string
	ServiceName  string
	SampleRate   float64
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "ServiceManager"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			Port:  env("APP_PORT", "8000"),
		},
		Container: ContainerConfig{
			DuplicatePolicy: env("CONTAINER_DUPLICATE_POLICY", "replace"),
			MaxDepth:        GetInt("CONTAINER_MAX_DEPTH", container.DefaultMaxDepth),
			AutoAlias:       envBool("CONTAINER_AUTO_ALIAS", true),
			Manifest:        env("CONTAINER_MANIFEST", ""),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "json"),
		},
		Tracing: TracingConfig{
			Enabled:     envBool("TRACING_ENABLED", false),
			Exporter:    env("TRACING_EXPORTER", "none"),
			ServiceName: env("TRACING_SERVICE_NAME", "servicemanager"),
			SampleRate:  GetFloat("TRACING_SAMPLE_RATE", 1.0),
		},
	}
}

// ContainerOptions converts the container section into container.Options.
// An unknown duplicate policy is an error rather than a silent default.
func (c *Config) ContainerOptions() (container.Options, error) {
	policy, err := container.ParseDuplicatePolicy(c.Container.DuplicatePolicy)
	if err != nil {
		return container.Options{}, err
	}
	return container.Options{
		DuplicatePolicy: policy,
		MaxDepth:        c.Container.MaxDepth,
		AutoAlias:       c.Container.AutoAlias,
	}, nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetFloat returns a float env value.
func GetFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
