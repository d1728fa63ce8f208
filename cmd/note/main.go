package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/note/internal"
	"github.com/starford/note/internal/noteservice"
	pkgconfig "github.com/starford/note/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.Root().String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// withApp opens the application for the duration of fn.
func withApp(cmd *cli.Command, fn func(*internal.App) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	app, err := internal.Open(internal.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	if cmd.NArg() < 1 {
		return "", fmt.Errorf("%s: missing %s argument", cmd.Name, name)
	}
	return cmd.Args().First(), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummaries(w io.Writer, items []noteservice.ItemSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Path, it.Slug, strings.Join(it.Tags, ","))
	}
	return tw.Flush()
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Print JSON instead of text"}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a note under a parent path",
		ArgsUsage: "[TITLE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Parent path", Value: "/"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Short description"},
			&cli.StringSliceFlag{Name: "tag", Usage: "Tag (repeatable)"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read note content from a file, - for stdin"},
			&cli.BoolFlag{Name: "edit", Aliases: []string{"e"}, Usage: "Open the new note in the editor"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			in := noteservice.AddInput{
				Path:        cmd.String("path"),
				Title:       cmd.String("title"),
				Description: cmd.String("description"),
				Tags:        cmd.StringSlice("tag"),
			}
			if in.Title == "" && cmd.NArg() > 0 {
				in.Title = strings.Join(cmd.Args().Slice(), " ")
			}
			switch file := cmd.String("file"); file {
			case "":
			case "-":
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				in.Content = data
			default:
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				in.Content = data
			}

			return withApp(cmd, func(app *internal.App) error {
				item, err := app.Service().Add(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.Root().Writer, item.Path)
				if cmd.Bool("edit") {
					_, err = app.Service().Edit(ctx, item.Path)
				}
				return err
			})
		},
	}
}

func lsCommand() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "List the children of a path",
		ArgsUsage: "[PATH]",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(app *internal.App) error {
				items, err := app.Service().List(ctx, cmd.Args().First())
				if err != nil {
					return err
				}
				if cmd.Bool("json") {
					return printJSON(cmd.Root().Writer, items)
				}
				return printSummaries(cmd.Root().Writer, items)
			})
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a note",
		ArgsUsage: "PATH",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := requireArg(cmd, "PATH")
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *internal.App) error {
				item, err := app.Service().Show(ctx, path)
				if err != nil {
					return err
				}
				w := cmd.Root().Writer
				if cmd.Bool("json") {
					return printJSON(w, item)
				}
				if item.Missing {
					return fmt.Errorf("%s: note file %s is missing", item.Path, item.Slug)
				}
				_, err = io.WriteString(w, item.Content)
				return err
			})
		},
	}
}

func treeCommand() *cli.Command {
	return &cli.Command{
		Name:  "tree",
		Usage: "Print the whole note tree",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(app *internal.App) error {
				items, err := app.Service().Tree(ctx)
				if err != nil {
					return err
				}
				w := cmd.Root().Writer
				if cmd.Bool("json") {
					return printJSON(w, items)
				}
				for _, it := range items {
					depth := strings.Count(it.Path, "/") - 1
					fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), it.Title)
				}
				return nil
			})
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Open a note in the editor",
		ArgsUsage: "PATH",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := requireArg(cmd, "PATH")
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *internal.App) error {
				_, err := app.Service().Edit(ctx, path)
				return err
			})
		},
	}
}

func rmCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete the note file behind a path",
		ArgsUsage: "PATH",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := requireArg(cmd, "PATH")
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *internal.App) error {
				item, err := app.Service().Remove(ctx, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.Root().Writer, "removed %s (%s)\n", item.Path, item.Slug)
				return nil
			})
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search across notes",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of results", Value: 20},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return fmt.Errorf("search: missing QUERY argument")
			}
			query := strings.Join(cmd.Args().Slice(), " ")
			return withApp(cmd, func(app *internal.App) error {
				hits, err := app.Service().Search(ctx, query, int(cmd.Int("limit")))
				if err != nil {
					return err
				}
				w := cmd.Root().Writer
				if cmd.Bool("json") {
					return printJSON(w, hits)
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, h := range hits {
					name := h.Path
					if name == "" {
						name = h.Slug
					}
					fmt.Fprintf(tw, "%s\t%s\n", name, strings.ReplaceAll(h.Snippet, "\n", " "))
				}
				return tw.Flush()
			})
		},
	}
}

func reindexCommand() *cli.Command {
	return &cli.Command{
		Name:  "reindex",
		Usage: "Rebuild the search index from the notes directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(app *internal.App) error {
				stats, err := app.Service().Reindex(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.Root().Writer, "indexed %d, removed %d, failed %d\n",
					stats.Indexed, stats.Removed, stats.Failed)
				return nil
			})
		},
	}
}

func unlockCommand() *cli.Command {
	return &cli.Command{
		Name:  "unlock",
		Usage: "Remove a stale manifest lock",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(app *internal.App) error {
				held, err := app.Service().Unlock(ctx)
				if err != nil {
					return err
				}
				if !held {
					fmt.Fprintln(cmd.Root().Writer, "no lock held")
				}
				return nil
			})
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and keep the search index current",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(app *internal.App) error {
				if err := app.Serve(ctx); err != nil {
					return fmt.Errorf("app run error: %w", err)
				}
				return nil
			})
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the note tree as MCP tools over stdio",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(app *internal.App) error {
				return app.ServeMCP()
			})
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "note",
		Usage: "Personal notes organised as a tree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "$XDG_CONFIG_HOME/note/config.yaml",
				Value:       internal.DefaultConfigPath(),
				Sources:     cli.EnvVars("NOTE_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			addCommand(),
			lsCommand(),
			showCommand(),
			treeCommand(),
			editCommand(),
			rmCommand(),
			searchCommand(),
			reindexCommand(),
			unlockCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("note: "+err.Error())
		}
		os.Exit(1)
	}
}
