package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/flarexio/toolcatalog"
	"github.com/flarexio/toolcatalog/cmd/internal/bootstrap"

	mcpE "github.com/flarexio/toolcatalog/mcp"
	natsT "github.com/flarexio/toolcatalog/transport/nats"
)

type StdioMCPServer interface {
	AddEndpoint(method mcp.MCPMethod, endpoint mcpE.MCPEndpoint) error
	Listen(ctx context.Context) error
}

func NewStdioMCPServer(in io.Reader, out io.Writer) StdioMCPServer {
	return &stdioMCPServer{
		endpoints: make(map[mcp.MCPMethod]mcpE.MCPEndpoint),
		in:        in,
		out:       out,
	}
}

type stdioMCPServer struct {
	endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint
	in        io.Reader
	out       io.Writer
}

func (s *stdioMCPServer) Listen(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make(chan string)
	errs := make(chan error, 1)

	go func(ctx context.Context, lines chan<- string, errs chan<- error) {
		defer close(lines)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}(ctx, lines, errs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errs:
					return err
				default:
					return nil
				}
			}

			if line == "" {
				continue
			}

			var req mcpE.JSONRPCRequest
			if err := json.Unmarshal([]byte(line), &req); err != nil {
				continue
			}

			if req.ID.IsNil() {
				continue
			}

			var resp mcp.JSONRPCMessage

			endpoint, ok := s.endpoints[req.Method]
			if ok {
				resp = endpoint(ctx, req)
			} else {
				resp = mcpE.ErrorResponse(req.ID, mcp.METHOD_NOT_FOUND, "method not found")
			}

			bs, err := json.Marshal(resp)
			if err != nil {
				continue
			}

			fmt.Fprintf(s.out, "%s\n", bs)
		}
	}
}

func (srv *stdioMCPServer) AddEndpoint(method mcp.MCPMethod, endpoint mcpE.MCPEndpoint) error {
	_, ok := srv.endpoints[method]
	if ok {
		return errors.New("endpoint already exists")
	}

	srv.endpoints[method] = endpoint
	return nil
}

func main() {
	logger, err := bootstrap.NewLogger()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	flags := bootstrap.Flags()
	flags = append(flags,
		&cli.StringFlag{
			Name:    "nats",
			Usage:   "NATS server URL, searches a remote toolcatalog server when set",
			Sources: cli.EnvVars("NATS_URL"),
		},
		&cli.StringFlag{
			Name:    "nats-creds",
			Usage:   "NATS user credentials file",
			Sources: cli.EnvVars("NATS_CREDS"),
		},
		&cli.StringFlag{
			Name:  "topic",
			Usage: "NATS subject prefix of the remote server",
			Value: "toolcatalog",
		},
	)

	cmd := &cli.Command{
		Name:   "toolcatalog_mcp_server",
		Usage:  "Tool catalog MCP server over stdio",
		Flags:  flags,
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err.Error())
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var svc toolcatalog.Service

	if natsURL := cmd.String("nats"); natsURL != "" {
		opts := []nats.Option{
			nats.Name("Tool Catalog MCP Server"),
		}

		if creds := cmd.String("nats-creds"); creds != "" {
			opts = append(opts, nats.UserCredentials(creds))
		}

		nc, err := nats.Connect(natsURL, opts...)
		if err != nil {
			return err
		}
		defer nc.Drain()

		endpoints := natsT.MakeEndpoints(nc, cmd.String("topic"))
		svc = toolcatalog.ProxyMiddleware(endpoints)(svc)
	} else {
		cfg, err := bootstrap.LoadConfig(cmd)
		if err != nil {
			return err
		}

		svc, err = bootstrap.Open(ctx, cfg)
		if err != nil {
			return err
		}
	}
	defer svc.Close()

	s := NewStdioMCPServer(os.Stdin, os.Stdout)
	s.AddEndpoint(mcp.MethodInitialize, mcpE.InitializeEndpoint(svc))
	s.AddEndpoint(mcp.MethodPing, mcpE.PingEndpoint(svc))
	s.AddEndpoint(mcp.MethodToolsList, mcpE.ListToolsEndpoint(svc))
	s.AddEndpoint(mcp.MethodToolsCall, mcpE.CallToolEndpoint(svc))

	done := make(chan error, 1)
	go func() {
		done <- s.Listen(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		cancel()
		return nil

	case err := <-done:
		return err
	}
}
