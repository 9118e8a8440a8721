// Package config loads layerscout settings with precedence
// defaults → YAML file → environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/layerscout/core"
	"github.com/poiesic/layerscout/export"
	"github.com/poiesic/layerscout/feeds"
	"github.com/poiesic/layerscout/search"
	"github.com/poiesic/layerscout/session"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no path is given and LAYERSCOUT_CONFIG is unset.
const DefaultPath = "layerscout.yaml"

// Config is the root configuration structure.
// It is read-only after Load returns and safe for concurrent reads.
type Config struct {
	Catalog     CatalogConfig       `yaml:"catalog"`
	Search      SearchConfig        `yaml:"search"`
	Server      ServerConfig        `yaml:"server"`
	Log         LogConfig           `yaml:"log"`
	Export      ExportConfig        `yaml:"export"`
	Feeds       []FeedConfig        `yaml:"feeds"`
	Presets     []session.Preset    `yaml:"presets"`
	FeedQueries map[string][]string `yaml:"feed_queries"`
}

// CatalogConfig locates the catalog source and its parse cache.
type CatalogConfig struct {
	Path     string `yaml:"path"`
	CacheDir string `yaml:"cache_dir"` // empty disables the cache
}

// SearchConfig tunes ranking.
type SearchConfig struct {
	NameWeight         float64  `yaml:"name_weight"`
	AgencyWeight       float64  `yaml:"agency_weight"`
	Limit              int      `yaml:"limit"`
	BrowseOnEmptyQuery bool     `yaml:"browse_on_empty_query"`
	Statuses           []string `yaml:"statuses"` // empty admits every status
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ExportConfig sets export document defaults.
type ExportConfig struct {
	Format  string `yaml:"format"`
	Basemap string `yaml:"basemap"`
}

// FeedConfig describes one live-event feed.
type FeedConfig struct {
	Name       string   `yaml:"name"`
	URL        string   `yaml:"url"`
	Format     string   `yaml:"format"`
	Kind       string   `yaml:"kind"`
	TitleField string   `yaml:"title_field"`
	Timeout    Duration `yaml:"timeout"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration from path, or from LAYERSCOUT_CONFIG or
// DefaultPath when path is empty. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getEnv("LAYERSCOUT_CONFIG", DefaultPath)
	}

	cfg := Default()
	if err := loadYAMLFile(cfg, path); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file that must exist.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with all default values.
func Default() *Config {
	queries := make(map[string][]string)
	for kind, qs := range feeds.DefaultQueries() {
		queries[string(kind)] = qs
	}

	w := search.DefaultWeights()
	return &Config{
		Catalog: CatalogConfig{
			Path: "catalog.csv",
		},
		Search: SearchConfig{
			NameWeight:   w.Name,
			AgencyWeight: w.Agency,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Export: ExportConfig{
			Format:  "json",
			Basemap: "topo",
		},
		FeedQueries: queries,
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Catalog
	if v := os.Getenv("LAYERSCOUT_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("LAYERSCOUT_CACHE_DIR"); v != "" {
		cfg.Catalog.CacheDir = v
	}

	// Search
	if v := os.Getenv("LAYERSCOUT_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.Limit = n
		}
	}
	if v := os.Getenv("LAYERSCOUT_BROWSE_ON_EMPTY_QUERY"); v != "" {
		cfg.Search.BrowseOnEmptyQuery = v == "true" || v == "1"
	}
	if v := os.Getenv("LAYERSCOUT_SEARCH_STATUSES"); v != "" {
		cfg.Search.Statuses = strings.Split(v, ",")
	}

	// Server
	if v := os.Getenv("LAYERSCOUT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LAYERSCOUT_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("LAYERSCOUT_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}

	// Log
	if v := os.Getenv("LAYERSCOUT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LAYERSCOUT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Export
	if v := os.Getenv("LAYERSCOUT_EXPORT_FORMAT"); v != "" {
		cfg.Export.Format = v
	}
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Catalog.Path) == "" {
		errs = append(errs, errors.New("catalog.path is required"))
	}
	if _, err := search.NewRanker(search.NewIndex(nil), c.RankerOptions()...); err != nil {
		errs = append(errs, fmt.Errorf("search: %w", err))
	}
	for _, s := range c.Search.Statuses {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, errors.New("search.statuses contains an empty status"))
		}
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.BuildFeeds(); err != nil {
		errs = append(errs, err)
	}

	names := make(map[string]struct{}, len(c.Presets))
	for _, p := range c.Presets {
		if _, dup := names[p.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate preset %q", p.Name))
		}
		names[p.Name] = struct{}{}
	}
	if _, err := session.New(emptyCatalog{}, session.WithPresets(c.Presets...)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RankerOptions translates the search section into ranker options.
func (c *Config) RankerOptions() []search.Option {
	opts := []search.Option{
		search.WithWeights(search.Weights{Name: c.Search.NameWeight, Agency: c.Search.AgencyWeight}),
		search.WithLimit(c.Search.Limit),
	}
	if len(c.Search.Statuses) > 0 {
		statuses := make([]core.Status, len(c.Search.Statuses))
		for i, s := range c.Search.Statuses {
			statuses[i] = core.ParseStatus(s)
		}
		opts = append(opts, search.WithFilter(search.StatusIs(statuses...)))
	}
	return opts
}

// SessionOptions returns the options every session should be created with.
func (c *Config) SessionOptions(logger *slog.Logger) []session.Option {
	return []session.Option{
		session.WithLogger(logger),
		session.WithRankerOptions(c.RankerOptions()...),
		session.WithBrowseOnEmptyQuery(c.Search.BrowseOnEmptyQuery),
		session.WithPresets(c.Presets...),
	}
}

// FeedQueryMapping returns the feed_queries section keyed by event kind.
func (c *Config) FeedQueryMapping() map[feeds.Kind][]string {
	mapping := make(map[feeds.Kind][]string, len(c.FeedQueries))
	for kind, qs := range c.FeedQueries {
		mapping[feeds.Kind(kind)] = qs
	}
	return mapping
}

// BuildFeeds creates the configured feeds.
func (c *Config) BuildFeeds() ([]feeds.Feed, error) {
	out := make([]feeds.Feed, 0, len(c.Feeds))
	for _, fc := range c.Feeds {
		f, err := feeds.NewHTTPFeed(fc.Name, fc.URL, feeds.Format(fc.Format),
			feeds.WithKind(feeds.Kind(fc.Kind)),
			feeds.WithTitleField(fc.TitleField),
			feeds.WithTimeout(time.Duration(fc.Timeout)),
		)
		if err != nil {
			return nil, fmt.Errorf("feed %q: %w", fc.Name, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}

// NewLogger builds a logger writing to w per the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLogLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// emptyCatalog lets Validate reuse session option checks without a catalog.
type emptyCatalog struct{}

func (emptyCatalog) Loaded() bool                             { return false }
func (emptyCatalog) All() []core.CatalogRecord                { return nil }
func (emptyCatalog) Lookup(string) (core.CatalogRecord, bool) { return core.CatalogRecord{}, false }
func (emptyCatalog) Names() []string                          { return nil }
