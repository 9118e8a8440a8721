// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/poiesic/layerscout"
	"github.com/poiesic/layerscout/config"
	"github.com/urfave/cli/v2"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "layerscout",
		Usage:    "Search an infrastructure layer catalog and build map selections",
		Version:  version,
		Metadata: map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"LAYERSCOUT_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			searchCommand(),
			exportCommand(),
			serveCommand(),
			feedsCommand(),
			cacheCommand(),
		},
	}
}

// catalogFlag is shared by every command that opens the catalog.
func catalogFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "catalog",
		Usage: "Path to the catalog CSV or TSV file (overrides catalog.path)",
	}
}

// setupLogger loads the configuration and installs the default logger.
func setupLogger(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if _, err := config.ParseLogLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", cfg.Log.Level)
	}

	slog.SetDefault(cfg.NewLogger(os.Stderr))
	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// applyCatalogFlag lets --catalog override catalog.path.
func applyCatalogFlag(c *cli.Context, cfg *config.Config) {
	if c.IsSet("catalog") {
		cfg.Catalog.Path = c.String("catalog")
	}
}

func workspaceOptions(cfg *config.Config) []layerscout.Option {
	logger := slog.Default()
	return []layerscout.Option{
		layerscout.WithCacheDir(cfg.Catalog.CacheDir),
		layerscout.WithLogger(logger),
		layerscout.WithSessionOptions(cfg.SessionOptions(logger)...),
	}
}

// openWorkspace opens and loads the catalog named by flags or configuration.
func openWorkspace(ctx context.Context, c *cli.Context, cfg *config.Config) (*layerscout.Workspace, error) {
	applyCatalogFlag(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ws, err := layerscout.Open(ctx, cfg.Catalog.Path, workspaceOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return ws, nil
}
