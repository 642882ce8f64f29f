package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/SweetsNSavories/timeline/internal/adapter"
	"github.com/SweetsNSavories/timeline/internal/config"
	"github.com/SweetsNSavories/timeline/internal/pipeline"
	"github.com/SweetsNSavories/timeline/internal/source"
	"github.com/SweetsNSavories/timeline/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(reg *adapter.Registry, db *sqlx.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "timeline",
		Usage:   "Record-supply adapter for timeline widgets",
		Version: Version,
		Commands: []*cli.Command{
			seedCmd(db),
			queryCmd(reg),
			facetsCmd(reg),
			serveCmd(reg, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// seedCmd creates the seed command.
func seedCmd(db *sqlx.DB) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert demo shipments for a host record",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "record", Aliases: []string{"r"}, Required: true, Usage: "Host record identifier"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 25, Usage: "Number of shipments to insert"},
		},
		Action: func(c *cli.Context) error {
			if err := source.Seed(db, c.String("record"), c.Int("count")); err != nil {
				return err
			}
			return outputJSON(map[string]any{
				"seeded": c.Int("count"),
				"record": c.String("record"),
			})
		},
	}
}

// queryCmd creates the query command.
func queryCmd(reg *adapter.Registry) *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Run one page query against a host record's timeline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "record", Aliases: []string{"r"}, Required: true, Usage: "Host record identifier"},
			&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Free-text search keyword"},
			&cli.StringFlag{Name: "selected", Aliases: []string{"s"}, Usage: "Comma-separated selected facet values"},
			&cli.IntFlag{Name: "page-size", Usage: "Records per page (0 = default)"},
			&cli.StringFlag{Name: "cursor", Usage: "Id of the last-seen record"},
			&cli.BoolFlag{Name: "descending", Usage: "Sort newest first"},
			&cli.StringFlag{Name: "request-id", Usage: "Opaque token echoed in the result"},
		},
		Action: func(c *cli.Context) error {
			a := reg.Acquire(c.Context, c.String("record"))

			req := pipeline.PageRequest{
				PageSize:  c.Int("page-size"),
				Ascending: !c.Bool("descending"),
				Cursor:    c.String("cursor"),
				RequestID: c.String("request-id"),
			}
			spec := a.FilterSpecFromSelection(c.Context, c.String("keyword"), splitSelected(c.String("selected")))

			return outputJSON(a.GetRecordsData(c.Context, req, spec))
		},
	}
}

// facetsCmd creates the facets command.
func facetsCmd(reg *adapter.Registry) *cli.Command {
	return &cli.Command{
		Name:  "facets",
		Usage: "List the available facet groups for a host record's timeline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "record", Aliases: []string{"r"}, Required: true, Usage: "Host record identifier"},
		},
		Action: func(c *cli.Context) error {
			a := reg.Acquire(c.Context, c.String("record"))
			return outputJSON(map[string]any{
				"facets": a.GetFilterDetails(c.Context),
			})
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(reg *adapter.Registry, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the timeline JSON API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(reg, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// splitSelected parses a comma-separated facet value list.
func splitSelected(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// outputJSON prints indented JSON to stdout.
func outputJSON(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
