package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/flarexio/toolcatalog"
	"github.com/flarexio/toolcatalog/cmd/internal/bootstrap"

	mcpE "github.com/flarexio/toolcatalog/mcp"
	httpT "github.com/flarexio/toolcatalog/transport/http"
	natsT "github.com/flarexio/toolcatalog/transport/nats"
)

func main() {
	logger, err := bootstrap.NewLogger()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	cmd := NewCommand(os.Stdout, bootstrap.Open)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Sync()
		log.Fatal(err.Error())
	}
}

func NewCommand(stdout io.Writer, open bootstrap.Opener) *cli.Command {
	return &cli.Command{
		Name:  "toolcatalog",
		Usage: "Tool catalog ingestion and search",
		Flags: bootstrap.Flags(),
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Index the configured catalogs, or only the named collections",
				ArgsUsage: "[collection...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "recreate",
						Usage: "Delete existing collections before indexing",
					},
					&cli.StringFlag{
						Name:  "sample",
						Usage: "Query to run against each collection after indexing",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return ingest(ctx, cmd, stdout, open)
				},
			},
			{
				Name:  "collections",
				Usage: "List the indexed collections",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return collections(ctx, cmd, stdout, open)
				},
			},
			{
				Name:  "serve",
				Usage: "Serve search over HTTP, MCP and optionally NATS",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "http-addr",
						Usage: "HTTP server address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:    "nats",
						Usage:   "NATS server URL, NATS transport is disabled when empty",
						Sources: cli.EnvVars("NATS_URL"),
					},
					&cli.StringFlag{
						Name:    "nats-creds",
						Usage:   "NATS user credentials file",
						Sources: cli.EnvVars("NATS_CREDS"),
					},
					&cli.StringFlag{
						Name:  "topic",
						Usage: "NATS subject prefix",
						Value: "toolcatalog",
					},
				},
				Action: serve,
			},
		},
	}
}

type ingestOutput struct {
	Reports []*toolcatalog.IndexReport `json:"reports"`
	Samples []sampleOutput             `json:"samples,omitempty"`
}

type sampleOutput struct {
	Collection string                     `json:"collection"`
	Result     toolcatalog.SearchResponse `json:"result"`
}

func ingest(ctx context.Context, cmd *cli.Command, stdout io.Writer, open bootstrap.Opener) error {
	cfg, err := bootstrap.LoadConfig(cmd)
	if err != nil {
		return err
	}

	svc, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	names := cmd.Args().Slice()
	if len(names) == 0 {
		for _, c := range cfg.Catalogs {
			names = append(names, c.Collection)
		}
	}

	recreate := cmd.Bool("recreate")
	sample := cmd.String("sample")

	var (
		output ingestOutput
		errs   []error
	)

	for _, name := range names {
		report, err := svc.IngestCatalog(ctx, name, recreate)
		if report != nil {
			output.Reports = append(output.Reports, report)
		}

		if err != nil {
			errs = append(errs, err)
			continue
		}

		if sample == "" {
			continue
		}

		result, err := svc.SearchTools(ctx, name, sample)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		output.Samples = append(output.Samples, sampleOutput{
			Collection: name,
			Result:     result.Response(),
		})
	}

	if err := json.NewEncoder(stdout).Encode(&output); err != nil {
		return err
	}

	return errors.Join(errs...)
}

func collections(ctx context.Context, cmd *cli.Command, stdout io.Writer, open bootstrap.Opener) error {
	cfg, err := bootstrap.LoadConfig(cmd)
	if err != nil {
		return err
	}

	svc, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	infos, err := svc.ListCollections(ctx)
	if err != nil {
		return err
	}

	return json.NewEncoder(stdout).Encode(&infos)
}

func serve(ctx context.Context, cmd *cli.Command) error {
	log := zap.L()

	cfg, err := bootstrap.LoadConfig(cmd)
	if err != nil {
		return err
	}

	svc, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc = toolcatalog.InstrumentingMiddleware(reg)(svc)

	endpoints := toolcatalog.EndpointSet{
		ListCollections: toolcatalog.ListCollectionsEndpoint(svc),
		SearchTools:     toolcatalog.SearchToolsEndpoint(svc),
	}

	// Add NATS Transport
	if natsURL := cmd.String("nats"); natsURL != "" {
		opts := []nats.Option{
			nats.Name("Tool Catalog Server"),
		}

		if creds := cmd.String("nats-creds"); creds != "" {
			opts = append(opts, nats.UserCredentials(creds))
		}

		nc, err := nats.Connect(natsURL, opts...)
		if err != nil {
			return err
		}
		defer nc.Drain()

		srv, err := micro.AddService(nc, micro.Config{
			Name:    "toolcatalog",
			Version: "1.0.0",
		})

		if err != nil {
			return err
		}
		defer srv.Stop()

		root := srv.AddGroup(cmd.String("topic"))
		natsT.AddEndpoints(root, endpoints)

		log.Info("nats transport enabled", zap.String("topic", cmd.String("topic")))
	}

	r := gin.Default()
	httpT.AddRouters(r, endpoints)
	httpT.AddMetricsRouter(r, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mcpEndpoints := make(map[mcp.MCPMethod]mcpE.MCPEndpoint)
	mcpEndpoints[mcp.MethodInitialize] = mcpE.InitializeEndpoint(svc)
	mcpEndpoints[mcp.MethodPing] = mcpE.PingEndpoint(svc)
	mcpEndpoints[mcp.MethodToolsList] = mcpE.ListToolsEndpoint(svc)
	mcpEndpoints[mcp.MethodToolsCall] = mcpE.CallToolEndpoint(svc)
	httpT.AddStreamableRouters(r, mcpEndpoints)

	httpAddr := cmd.String("http-addr")
	go func() {
		if err := r.Run(httpAddr); err != nil {
			log.Error(fmt.Sprintf("http server stopped: %s", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}
