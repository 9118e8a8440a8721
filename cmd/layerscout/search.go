package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/layerscout/core"
	"github.com/poiesic/layerscout/search"
	"github.com/poiesic/layerscout/session"
	"github.com/urfave/cli/v2"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Rank catalog layers against a query",
		ArgsUsage: "<query>",
		Action:    searchAction,
		Flags: []cli.Flag{
			catalogFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (0 for no limit)",
			},
			&cli.BoolFlag{
				Name:  "browse",
				Usage: "List every layer when the query is empty",
			},
			&cli.StringSliceFlag{
				Name:  "status",
				Usage: "Only show layers with this status (repeatable)",
			},
		},
	}
}

func searchAction(c *cli.Context) error {
	cfg := configFrom(c)
	if c.IsSet("limit") {
		cfg.Search.Limit = c.Int("limit")
	}
	if c.IsSet("browse") {
		cfg.Search.BrowseOnEmptyQuery = c.Bool("browse")
	}
	if c.IsSet("status") {
		cfg.Search.Statuses = c.StringSlice("status")
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

	query := strings.Join(c.Args().Slice(), " ")
	results, err := s.Search(query)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if len(results) == 0 {
		if search.Normalize(query).Empty() {
			fmt.Fprintln(out, "Enter a query to search the catalog.")
			return nil
		}
		fmt.Fprintf(out, "No layers matched %q.\n", query)
		if suggestions, _ := s.Suggest(query, 5); len(suggestions) > 0 {
			fmt.Fprintf(out, "Did you mean: %s\n", strings.Join(suggestions, ", "))
		}
		return nil
	}

	printTable(out, []string{"Name", "Agency", "Score", "Matched", "Endpoint"}, resultRows(results))
	return nil
}

func resultRows(results []core.MatchResult) [][]string {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Record.Name,
			r.Record.Agency,
			strconv.FormatFloat(r.Score, 'f', 1, 64),
			strings.Join(r.MatchedFields.Names(), ","),
			endpointOrDash(r.Record),
		}
	}
	return rows
}

func selectionRows(entries []core.SelectionEntry) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.FormatUint(e.Sequence, 10),
			e.Record.Name,
			e.Record.Agency,
			endpointOrDash(e.Record),
		}
	}
	return rows
}

func printSelection(c *cli.Context, s *session.Session) {
	entries := s.CurrentSelection()
	if len(entries) == 0 {
		fmt.Fprintln(c.App.Writer, "No layers selected.")
		return
	}
	printTable(c.App.Writer, []string{"#", "Name", "Agency", "Endpoint"}, selectionRows(entries))
}

func endpointOrDash(r core.CatalogRecord) string {
	if !r.HasEndpoint() {
		return "-"
	}
	return r.ServiceEndpoint
}
