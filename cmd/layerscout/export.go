package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/layerscout/export"
	"github.com/poiesic/layerscout/session"
	"github.com/urfave/cli/v2"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:   "export",
		Usage:  "Build a selection and write it as a portable map document",
		Action: exportAction,
		Flags: []cli.Flag{
			catalogFlag(),
			&cli.StringSliceFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Add the best match with an endpoint for this query (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "layer",
				Usage: "Add the layer with this exact name (repeatable)",
			},
			&cli.StringFlag{
				Name:  "preset",
				Usage: "Start from a configured preset",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Start from the layers and view of a previously exported document",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json, yaml)",
			},
			&cli.StringFlag{
				Name:  "basemap",
				Usage: "Basemap recorded in the view",
			},
			&cli.Float64Flag{
				Name:  "zoom",
				Usage: "Zoom level recorded in the view",
			},
			&cli.Float64Flag{
				Name:  "lon",
				Usage: "View center longitude",
			},
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "View center latitude",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
	}
}

func exportAction(c *cli.Context) error {
	if c.IsSet("from") && c.IsSet("preset") {
		return errors.New("use either --from or --preset, not both")
	}

	cfg := configFrom(c)
	if c.IsSet("format") {
		cfg.Export.Format = c.String("format")
	}
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
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

	view := export.View{Basemap: cfg.Export.Basemap}
	switch {
	case c.IsSet("from"):
		doc, err := readDocument(c.String("from"))
		if err != nil {
			return err
		}
		if err := s.ActivateAll(doc.Names()...); err != nil {
			return err
		}
		if missing := len(doc.Layers) - len(s.CurrentSelection()); missing > 0 {
			slog.Warn("some layers from the document are not in this catalog", "missing", missing)
		}
		view = doc.View
	case c.IsSet("preset"):
		if _, err := s.ApplyPreset(c.String("preset")); err != nil {
			return err
		}
	}

	if err := addQueries(s, c.StringSlice("query")); err != nil {
		return err
	}
	for _, name := range c.StringSlice("layer") {
		if err := s.Activate(name); err != nil {
			return err
		}
	}

	if c.IsSet("basemap") {
		view.Basemap = c.String("basemap")
	}
	if c.IsSet("zoom") {
		view.Zoom = c.Float64("zoom")
	}
	if c.IsSet("lon") {
		view.Center[0] = c.Float64("lon")
	}
	if c.IsSet("lat") {
		view.Center[1] = c.Float64("lat")
	}
	if err := view.Validate(); err != nil {
		return err
	}

	entries := s.CurrentSelection()
	if len(entries) == 0 {
		slog.Warn("exporting an empty selection")
	}
	doc := export.Build(entries, view, ws.Fingerprint())

	var out io.Writer = c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := export.Encode(out, doc, format); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	slog.Info("exported selection", "layers", len(doc.Layers), "format", format)
	return nil
}

// addQueries activates the best-ranked layer with an endpoint for each query.
func addQueries(s *session.Session, queries []string) error {
	for _, q := range queries {
		results, err := s.Search(q)
		if err != nil {
			return err
		}
		found := false
		for _, r := range results {
			if r.Record.HasEndpoint() {
				if err := s.Activate(r.Record.Name); err != nil {
					return err
				}
				found = true
				break
			}
		}
		if !found {
			slog.Warn("no layer with an endpoint matched", "query", q)
		}
	}
	return nil
}

// readDocument decodes an exported document, choosing the format by extension.
func readDocument(path string) (*export.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	format := export.FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = export.FormatYAML
	}
	return export.Decode(f, format)
}
