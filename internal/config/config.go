package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAdminPassword is only accepted in development.
const DefaultAdminPassword = "admin"

const (
	BackendFile     = "file"
	BackendDatabase = "database"
)

type Config struct {
	Addr       string           `yaml:"addr"`
	Env        string           `yaml:"env"`
	APITimeout time.Duration    `yaml:"timeout"`
	Admin      AdminConfig      `yaml:"admin"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Blob       BlobConfig       `yaml:"blob"`
	CORS       CORSConfig       `yaml:"cors"`
	Cache      CacheConfig      `yaml:"cache"`
	Revalidate RevalidateConfig `yaml:"revalidate"`
}

type AdminConfig struct {
	Password string `yaml:"password"`
	// PasswordBcrypt, when set, replaces the plain comparison.
	PasswordBcrypt string `yaml:"password_bcrypt"`
}

type StorageConfig struct {
	Backend         string        `yaml:"backend"`
	ContentDir      string        `yaml:"content_dir"`
	AllowFileWrites bool          `yaml:"allow_file_writes"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout"`
}

type DatabaseConfig struct {
	Dialect string `yaml:"dialect"`
	DSN     string `yaml:"dsn"`
}

type BlobConfig struct {
	Dir      string `yaml:"dir"`
	BaseURL  string `yaml:"base_url"`
	MaxBytes int64  `yaml:"max_bytes"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type RevalidateConfig struct {
	URL         string `yaml:"url"`
	Secret      string `yaml:"secret"`
	Workers     int    `yaml:"workers"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// LoadConfig builds the configuration from defaults, the environment (a .env
// file in the working directory is loaded first when present) and, if path
// is not empty, a YAML file whose values win.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr:       getEnv("FOLIO_ADDR", ":8080"),
		Env:        getEnv("FOLIO_ENV", "development"),
		APITimeout: 15 * time.Second,
		Admin: AdminConfig{
			Password:       getEnv("FOLIO_ADMIN_PASSWORD", DefaultAdminPassword),
			PasswordBcrypt: getEnv("FOLIO_ADMIN_PASSWORD_BCRYPT", ""),
		},
		Storage: StorageConfig{
			Backend:         getEnv("FOLIO_STORAGE_BACKEND", BackendFile),
			ContentDir:      getEnv("FOLIO_CONTENT_DIR", "content"),
			AllowFileWrites: getEnvBool("FOLIO_ALLOW_FILE_WRITES", false),
			ProbeTimeout:    300 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Dialect: getEnv("FOLIO_DB_DIALECT", "sqlite"),
			DSN:     getEnv("FOLIO_DB_DSN", "folio.db"),
		},
		Blob: BlobConfig{
			Dir:      getEnv("FOLIO_BLOB_DIR", "uploads"),
			BaseURL:  getEnv("FOLIO_BLOB_BASE_URL", "/uploads"),
			MaxBytes: 10 << 20,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("FOLIO_CORS_ORIGINS", "")),
		},
		Cache: CacheConfig{TTL: 5 * time.Minute},
		Revalidate: RevalidateConfig{
			URL:         getEnv("FOLIO_REVALIDATE_URL", ""),
			Secret:      getEnv("FOLIO_REVALIDATE_SECRET", ""),
			Workers:     2,
			MaxAttempts: 5,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether the config targets local development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.APITimeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Admin.Password == "" && c.Admin.PasswordBcrypt == "" {
		return errors.New("admin.password or admin.password_bcrypt is required")
	}
	if !c.IsDevelopment() && c.Admin.PasswordBcrypt == "" && c.Admin.Password == DefaultAdminPassword {
		return fmt.Errorf("insecure default admin password in %s environment", c.Env)
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.ContentDir == "" {
			return errors.New("storage.content_dir is required for the file backend")
		}
	case BackendDatabase:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the database backend")
		}
		if c.Database.Dialect == "" {
			c.Database.Dialect = "sqlite"
		}
	default:
		return fmt.Errorf("unknown storage.backend %q (want %q or %q)", c.Storage.Backend, BackendFile, BackendDatabase)
	}
	if c.Storage.ProbeTimeout <= 0 {
		return errors.New("storage.probe_timeout must be positive")
	}

	if c.Blob.MaxBytes <= 0 {
		c.Blob.MaxBytes = 10 << 20
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}

	if c.Revalidate.URL != "" && c.Revalidate.Secret == "" {
		return errors.New("revalidate.secret is required when revalidate.url is set")
	}
	if c.Revalidate.Workers <= 0 {
		c.Revalidate.Workers = 1
	}
	if c.Revalidate.MaxAttempts <= 0 {
		c.Revalidate.MaxAttempts = 1
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
