package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/poiesic/layerscout/export"
	"github.com/urfave/cli/v2"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and maintain the parsed-catalog cache",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List cached catalog snapshots",
				Action: cacheListAction,
				Flags:  []cli.Flag{catalogFlag()},
			},
			{
				Name:   "prune",
				Usage:  "Delete snapshots of catalogs other than the current one",
				Action: cachePruneAction,
				Flags:  []cli.Flag{catalogFlag()},
			},
		},
	}
}

func cacheListAction(c *cli.Context) error {
	cfg := configFrom(c)
	if cfg.Catalog.CacheDir == "" {
		return errors.New("catalog.cache_dir is not set")
	}

	ws, err := openWorkspace(c.Context, c, cfg)
	if err != nil {
		return err
	}
	defer ws.Close()

	infos, err := ws.CachedCatalogs(c.Context)
	if err != nil {
		return err
	}

	current := ws.Fingerprint()
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{
			export.FormatFingerprint(info.Source),
			strconv.Itoa(info.Count),
			info.StoredAt.Format(time.RFC3339),
		}
	}
	printTable(c.App.Writer, []string{"Source", "Layers", "Stored"}, rows)
	fmt.Fprintf(c.App.Writer, "\nLoaded catalog fingerprint: %s\n", export.FormatFingerprint(current))
	return nil
}

func cachePruneAction(c *cli.Context) error {
	cfg := configFrom(c)
	if cfg.Catalog.CacheDir == "" {
		return errors.New("catalog.cache_dir is not set")
	}

	ws, err := openWorkspace(c.Context, c, cfg)
	if err != nil {
		return err
	}
	defer ws.Close()

	removed, err := ws.PruneCache(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Removed %d cached snapshot(s).\n", removed)
	return nil
}
