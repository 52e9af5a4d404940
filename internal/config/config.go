package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/indaco/vdocs/internal/core"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".vdocs.yaml"

// DefaultDocsDir is the docs tree used when none is configured.
const DefaultDocsDir = "docs"

// DefaultTheme is the interactive prompt theme used when none is configured.
const DefaultTheme = "vdocs"

// Environment variables overriding the configuration file.
const (
	EnvDocsDir     = "VDOCS_DOCS_DIR"
	EnvSiteURL     = "VDOCS_SITE_URL"
	EnvS3Endpoint  = "VDOCS_S3_ENDPOINT"
	EnvS3AccessKey = "VDOCS_S3_ACCESS_KEY"
	EnvS3SecretKey = "VDOCS_S3_SECRET_KEY"
	EnvS3Bucket    = "VDOCS_S3_BUCKET"
	EnvS3Region    = "VDOCS_S3_REGION"
	EnvS3UseSSL    = "VDOCS_S3_USE_SSL"
)

// ManifestConfig controls how version pages and tools locate versions.json.
type ManifestConfig struct {
	// Candidates are tried in order by version pages.
	Candidates []string `yaml:"candidates,omitempty"`
	// Landing candidates are tried by the landing page.
	Landing []string `yaml:"landing,omitempty"`
	// Fallback is "single" or "none".
	Fallback string `yaml:"fallback,omitempty"`
	// Timeout bounds each fetch attempt, e.g. "10s".
	Timeout string `yaml:"timeout,omitempty"`
}

// ResolverConfig controls version switching.
type ResolverConfig struct {
	Reserved       []string `yaml:"reserved,omitempty"`
	HostedSuffixes []string `yaml:"hosted_suffixes,omitempty"`
}

// LandingConfig controls the landing page.
type LandingConfig struct {
	// Delay before redirecting to the latest version, e.g. "30s".
	Delay string `yaml:"delay,omitempty"`
}

// RebuildConfig controls page regeneration.
type RebuildConfig struct {
	Concurrency int `yaml:"concurrency,omitempty"`
	// BackupSuffix is appended to replaced pages. An explicit empty string disables backups.
	BackupSuffix *string  `yaml:"backup_suffix,omitempty"`
	Cleanup      []string `yaml:"cleanup,omitempty"`
}

// StorageConfig configures the S3-compatible bucket used by sync and s3:// manifests.
type StorageConfig struct {
	Endpoint  string   `yaml:"endpoint,omitempty"`
	AccessKey string   `yaml:"access_key,omitempty"`
	SecretKey string   `yaml:"secret_key,omitempty"`
	Bucket    string   `yaml:"bucket,omitempty"`
	Region    string   `yaml:"region,omitempty"`
	UseSSL    bool     `yaml:"use_ssl,omitempty"`
	Prefix    string   `yaml:"prefix,omitempty"`
	Exclude   []string `yaml:"exclude,omitempty"`
}

// Config is the main configuration structure for vdocs.
type Config struct {
	DocsDir  string         `yaml:"docs_dir"`
	Title    string         `yaml:"title,omitempty"`
	Subtitle string         `yaml:"subtitle,omitempty"`
	SiteURL  string         `yaml:"site_url,omitempty"`
	Theme    string         `yaml:"theme,omitempty"`
	Manifest ManifestConfig `yaml:"manifest,omitempty"`
	Resolver ResolverConfig `yaml:"resolver,omitempty"`
	Landing  LandingConfig  `yaml:"landing,omitempty"`
	Rebuild  RebuildConfig  `yaml:"rebuild,omitempty"`
	Storage  StorageConfig  `yaml:"storage,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{DocsDir: DefaultDocsDir, Title: "API"}
}

// GetTheme returns the configured theme or DefaultTheme.
func (c *Config) GetTheme() string {
	if c.Theme == "" {
		return DefaultTheme
	}
	return c.Theme
}

// FileOpener abstracts file opening operations for testability.
type FileOpener interface {
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

// FileWriter abstracts file writing operations for testability.
type FileWriter interface {
	WriteFile(file *os.File, data []byte) (int, error)
}

// ConfigSaver handles configuration saving with injected dependencies.
type ConfigSaver struct {
	marshaler  core.Marshaler
	fileOpener FileOpener
	fileWriter FileWriter
}

type osFileOpener struct{}

func (o *osFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

type osFileWriter struct{}

func (w *osFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	return file.Write(data)
}

// yamlMarshaler is the production implementation of core.Marshaler using YAML.
type yamlMarshaler struct{}

func (m *yamlMarshaler) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// NewConfigSaver creates a ConfigSaver with the given dependencies.
// If any dependency is nil, the production default is used.
func NewConfigSaver(marshaler core.Marshaler, opener FileOpener, writer FileWriter) *ConfigSaver {
	if marshaler == nil {
		marshaler = &yamlMarshaler{}
	}
	if opener == nil {
		opener = &osFileOpener{}
	}
	if writer == nil {
		writer = &osFileWriter{}
	}
	return &ConfigSaver{
		marshaler:  marshaler,
		fileOpener: opener,
		fileWriter: writer,
	}
}

// Save saves the configuration to the default config file.
func (s *ConfigSaver) Save(cfg *Config) error {
	return s.SaveTo(cfg, DefaultFile)
}

// SaveTo saves the configuration to the specified file path. Storage
// credentials are never written; they belong in the environment.
func (s *ConfigSaver) SaveTo(cfg *Config, configFile string) error {
	out := *cfg
	out.Storage.AccessKey = ""
	out.Storage.SecretKey = ""

	file, err := s.fileOpener.OpenFile(configFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open config file %q: %w", configFile, err)
	}
	defer file.Close()

	data, err := s.marshaler.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", configFile, err)
	}

	if _, err := s.fileWriter.WriteFile(file, data); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", configFile, err)
	}

	return nil
}

var defaultConfigSaver = NewConfigSaver(nil, nil, nil)

// LoadConfigFn and SaveConfigFn are variables so commands can be tested
// without touching the working directory.
var (
	LoadConfigFn = loadConfig
	SaveConfigFn = func(cfg *Config) error {
		return defaultConfigSaver.Save(cfg)
	}
)

// loadConfig reads path, or DefaultFile when path is empty, then applies
// defaults and environment overrides. A missing DefaultFile yields the
// defaults; a missing explicit path is an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg = &Config{}
		decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if envPath := os.Getenv(EnvDocsDir); envPath != "" {
		cleanPath := filepath.Clean(envPath)
		// Reject relative paths with traversal (use absolute paths instead)
		if strings.Contains(cleanPath, "..") {
			return fmt.Errorf("invalid %s: path traversal not allowed, use absolute path instead", EnvDocsDir)
		}
		cfg.DocsDir = cleanPath
	}

	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.SiteURL, EnvSiteURL)
	setString(&cfg.Storage.Endpoint, EnvS3Endpoint)
	setString(&cfg.Storage.AccessKey, EnvS3AccessKey)
	setString(&cfg.Storage.SecretKey, EnvS3SecretKey)
	setString(&cfg.Storage.Bucket, EnvS3Bucket)
	setString(&cfg.Storage.Region, EnvS3Region)

	if v := os.Getenv(EnvS3UseSSL); v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvS3UseSSL, err)
		}
		cfg.Storage.UseSSL = useSSL
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.DocsDir == "" {
		cfg.DocsDir = DefaultDocsDir
	}
	if cfg.Title == "" {
		cfg.Title = "API"
	}
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are ignored; variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ParseDuration parses a duration setting, returning def when s is empty.
func ParseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// ConfigFilePerm defines secure file permissions for config files (owner read/write only).
const ConfigFilePerm = core.PermOwnerRW
