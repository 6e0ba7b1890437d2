package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/flarexio/toolcatalog"
	"github.com/flarexio/toolcatalog/cmd/internal/bootstrap"
)

const usage = "search_tools <collection_name> <query>"

func main() {
	logger, err := bootstrap.NewLogger()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	if err := Run(context.Background(), os.Stdout, bootstrap.Open, os.Args); err != nil {
		// the JSON error line has already been written
		logger.Sync()
		os.Exit(1)
	}
}

// Run executes the search command over argv. Flag parsing ends at the first
// positional argument, so a query may start with a dash.
func Run(ctx context.Context, stdout io.Writer, open bootstrap.Opener, argv []string) error {
	cmd := NewCommand(stdout, open)
	return cmd.Run(ctx, endFlags(cmd, argv))
}

// endFlags inserts "--" before the first positional argument of argv.
func endFlags(cmd *cli.Command, argv []string) []string {
	takesValue := make(map[string]bool)
	for _, f := range cmd.Flags {
		df, ok := f.(cli.DocGenerationFlag)
		if !ok || !df.TakesValue() {
			continue
		}

		for _, name := range f.Names() {
			takesValue[name] = true
		}
	}

	for i := 1; i < len(argv); i++ {
		token := argv[i]

		switch {
		case token == "--":
			return argv

		case len(token) > 1 && token[0] == '-':
			name := strings.TrimLeft(token, "-")
			if !strings.Contains(name, "=") && takesValue[name] {
				i++
			}

		default:
			args := make([]string, 0, len(argv)+1)
			args = append(args, argv[:i]...)
			args = append(args, "--")
			return append(args, argv[i:]...)
		}
	}

	return argv
}

// NewCommand builds the search command. Every invocation writes exactly one
// JSON line to stdout and returns a non-nil error on every failure path.
func NewCommand(stdout io.Writer, open bootstrap.Opener) *cli.Command {
	flags := bootstrap.Flags()
	flags = append(flags, &cli.IntFlag{
		Name:    "k",
		Usage:   "Number of results",
		Value:   toolcatalog.DefaultK,
		Aliases: []string{"n"},
	})

	return &cli.Command{
		Name:      "search_tools",
		Usage:     "Search a tool catalog collection",
		ArgsUsage: "<collection_name> <query>",
		Flags:     flags,
		HideHelp:  true,
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		OnUsageError: func(ctx context.Context, cmd *cli.Command, err error, isSubcommand bool) error {
			writeJSON(stdout, toolcatalog.ErrorResponse{
				Error: err.Error(),
				Usage: usage,
			})

			return err
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return search(ctx, cmd, stdout, open)
		},
	}
}

func search(ctx context.Context, cmd *cli.Command, stdout io.Writer, open bootstrap.Opener) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		writeJSON(stdout, toolcatalog.ErrorResponse{
			Error: toolcatalog.ErrInvalidArguments.Error(),
			Usage: usage,
		})

		return toolcatalog.ErrInvalidArguments
	}

	collection, query := args[0], args[1]

	details := map[string]string{
		"collection": collection,
		"query":      query,
	}

	fail := func(err error) error {
		writeJSON(stdout, toolcatalog.NewSearchErrorResponse(err, details))
		return err
	}

	cfg, err := bootstrap.LoadConfig(cmd)
	if err != nil {
		return fail(err)
	}

	details["db_path"] = cfg.Vector.Path

	svc, err := open(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	defer svc.Close()

	result, err := svc.SearchTools(ctx, collection, query, cmd.Int("k"))
	if err != nil {
		return fail(err)
	}

	writeJSON(stdout, result.Response())
	return nil
}

func writeJSON(w io.Writer, v any) {
	bs, err := json.Marshal(v)
	if err != nil {
		bs, _ = json.Marshal(toolcatalog.ErrorResponse{Error: err.Error()})
	}

	fmt.Fprintf(w, "%s\n", bs)
}
