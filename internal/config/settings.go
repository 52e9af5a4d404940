package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/countdown"
	"github.com/indaco/vdocs/internal/loader"
	"github.com/indaco/vdocs/internal/render"
	"github.com/indaco/vdocs/internal/resolver"
	"github.com/indaco/vdocs/internal/site"
	"github.com/indaco/vdocs/internal/storage"
	"github.com/indaco/vdocs/internal/versionid"
)

// Validate checks values that cannot be enforced by the YAML schema.
func (c *Config) Validate() error {
	if _, err := loader.ParseFallback(c.Manifest.Fallback); err != nil {
		return fmt.Errorf("manifest.fallback: %w", err)
	}
	if _, err := ParseDuration(c.Manifest.Timeout, core.TimeoutFetch); err != nil {
		return fmt.Errorf("manifest.timeout: %w", err)
	}
	if _, err := ParseDuration(c.Landing.Delay, 0); err != nil {
		return fmt.Errorf("landing.delay: %w", err)
	}
	if c.Rebuild.Concurrency < 0 {
		return fmt.Errorf("rebuild.concurrency: must not be negative, got %d", c.Rebuild.Concurrency)
	}
	if c.SiteURL != "" {
		u, err := url.Parse(c.SiteURL)
		if err != nil || u.Scheme == "" {
			return fmt.Errorf("site_url: %q is not an absolute URL", c.SiteURL)
		}
	}
	return nil
}

// LandingDelay returns the landing page countdown.
func (c *Config) LandingDelay() time.Duration {
	d, err := ParseDuration(c.Landing.Delay, countdown.DefaultSeconds*time.Second)
	if err != nil {
		return countdown.DefaultSeconds * time.Second
	}
	return d
}

// LoaderConfig returns the manifest loader settings for version pages.
func (c *Config) LoaderConfig() loader.Config {
	fallback, _ := loader.ParseFallback(c.Manifest.Fallback)
	timeout, err := ParseDuration(c.Manifest.Timeout, core.TimeoutFetch)
	if err != nil {
		timeout = core.TimeoutFetch
	}
	return loader.Config{
		Candidates: c.Manifest.Candidates,
		Fallback:   fallback,
		Timeout:    timeout,
	}
}

// LandingLoaderConfig returns the manifest loader settings for the landing page.
func (c *Config) LandingLoaderConfig() loader.Config {
	cfg := c.LoaderConfig()
	cfg.Candidates = c.Manifest.Landing
	if len(cfg.Candidates) == 0 {
		cfg.Candidates = loader.LandingCandidates
	}
	return cfg
}

// Matcher returns the version recognition rule.
func (c *Config) Matcher() *versionid.Matcher {
	return versionid.NewMatcher(c.Resolver.Reserved)
}

// ResolverPolicy returns the version switching policy.
func (c *Config) ResolverPolicy() resolver.Policy {
	return resolver.Policy{
		Matcher:        c.Matcher(),
		HostedSuffixes: c.Resolver.HostedSuffixes,
	}
}

// PageConfig returns the values shared by generated pages.
func (c *Config) PageConfig() render.PageConfig {
	return render.PageConfig{
		Title:             c.Title,
		Subtitle:          c.Subtitle,
		Candidates:        c.LoaderConfig().Candidates,
		LandingCandidates: c.LandingLoaderConfig().Candidates,
		Fallback:          string(c.LoaderConfig().Fallback),
		Reserved:          c.Resolver.Reserved,
		HostedSuffixes:    c.Resolver.HostedSuffixes,
	}
}

// SiteOptions returns the docs tree settings.
func (c *Config) SiteOptions() site.Options {
	return site.Options{
		DocsDir:      c.DocsDir,
		Page:         c.PageConfig(),
		LandingDelay: c.LandingDelay(),
	}
}

// RebuildOptions returns the page regeneration settings.
func (c *Config) RebuildOptions() site.RebuildOptions {
	opts := site.RebuildOptions{
		BackupSuffix: site.DefaultBackupSuffix,
		Cleanup:      c.Rebuild.Cleanup,
		Concurrency:  c.Rebuild.Concurrency,
	}
	if c.Rebuild.BackupSuffix != nil {
		opts.BackupSuffix = *c.Rebuild.BackupSuffix
	}
	if opts.Cleanup == nil {
		opts.Cleanup = site.DefaultCleanup
	}
	return opts
}

// StorageConfig returns the object storage client settings.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Endpoint:  c.Storage.Endpoint,
		AccessKey: c.Storage.AccessKey,
		SecretKey: c.Storage.SecretKey,
		Bucket:    c.Storage.Bucket,
		Region:    c.Storage.Region,
		UseSSL:    c.Storage.UseSSL,
	}
}

// SyncOptions returns the upload settings.
func (c *Config) SyncOptions() site.SyncOptions {
	return site.SyncOptions{
		Prefix:  c.Storage.Prefix,
		Exclude: c.Storage.Exclude,
	}
}
