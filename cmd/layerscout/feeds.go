package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/poiesic/layerscout/feeds"
	"github.com/urfave/cli/v2"
)

func feedsCommand() *cli.Command {
	return &cli.Command{
		Name:   "feeds",
		Usage:  "Fetch live hazard feeds and optionally select matching layers",
		Action: feedsAction,
		Flags: []cli.Flag{
			catalogFlag(),
			&cli.BoolFlag{
				Name:  "select",
				Usage: "Select layers for the active events using feed_queries",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of feeds fetched concurrently",
				Value: 4,
			},
		},
	}
}

func feedsAction(c *cli.Context) error {
	cfg := configFrom(c)
	sources, err := cfg.BuildFeeds()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New("no feeds configured")
	}

	collector, err := feeds.NewCollector(sources,
		feeds.WithPoolSize(c.Int("workers")),
		feeds.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}
	defer collector.Release()

	events, err := collector.Collect(c.Context)
	if err != nil {
		// Failed feeds contribute nothing; report and carry on with the rest.
		slog.Warn("some feeds failed", "error", err)
	}

	out := c.App.Writer
	if len(events) == 0 {
		fmt.Fprintln(out, "No active events.")
		return nil
	}

	rows := make([][]string, len(events))
	for i, e := range events {
		rows[i] = []string{
			e.Feed,
			string(e.Kind),
			e.Title,
			strconv.FormatFloat(e.Latitude, 'f', 2, 64),
			strconv.FormatFloat(e.Longitude, 'f', 2, 64),
		}
	}
	printTable(out, []string{"Feed", "Kind", "Title", "Lat", "Lon"}, rows)

	if !c.Bool("select") {
		return nil
	}

	preset := feeds.SeedQueries(events, cfg.FeedQueryMapping())
	if len(preset.Queries) == 0 {
		fmt.Fprintln(out, "No queries are mapped to the active event kinds.")
		return nil
	}

	ws, err := openWorkspace(c.Context, c, cfg)
	if err != nil {
		return err
	}
	defer ws.Close()

	s, err := ws.NewSession()
	if err != nil {
		return err
	}
	if _, err := s.ApplyPresetDef(preset); err != nil {
		return err
	}

	fmt.Fprintln(out)
	printSelection(c, s)
	return nil
}
