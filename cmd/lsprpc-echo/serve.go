package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lspkit/lsprpc-go-sdk/lspserver"
	"github.com/lspkit/lsprpc-go-sdk/lsptypes"
	"github.com/lspkit/lsprpc-go-sdk/rpc"
	"github.com/lspkit/lsprpc-go-sdk/transport"
)

func serveCmd() *cobra.Command {
	var configPath string
	var stdioFlag bool
	var listenFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the echo server over stdio or TCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("stdio") {
				cfg.Stdio = stdioFlag
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listenFlag
				cfg.Stdio = false
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&stdioFlag, "stdio", true, "serve over stdio")
	cmd.Flags().StringVar(&listenFlag, "listen", "", "serve over TCP at this address instead of stdio")
	return cmd
}

func runServe(ctx context.Context, cfg ServeConfig) error {
	logger := newLogger(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Stdio {
		return serveStdio(ctx, logger)
	}
	return serveTCP(ctx, cfg.Listen, logger)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func serveStdio(ctx context.Context, logger *slog.Logger) error {
	sessionID := uuid.NewString()
	logger = logger.With("session", sessionID, "transport", "stdio")
	logger.Info("serving")

	r, w := transport.Stdio()
	srv := lspserver.New(r, w, nil).SetLogger(logger)
	registerHandlers(srv, logger)
	return srv.Serve(ctx)
}

func serveTCP(ctx context.Context, addr string, logger *slog.Logger) error {
	ln, err := transport.ListenTCP(addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	logger.Info("listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}
		go handleTCPConn(ctx, conn, logger)
	}
}

func handleTCPConn(ctx context.Context, conn net.Conn, logger *slog.Logger) {
	sessionID := uuid.NewString()
	logger = logger.With("session", sessionID, "transport", "tcp", "remote", conn.RemoteAddr().String())
	logger.Info("connection accepted")

	srv := lspserver.New(conn, conn, conn).SetLogger(logger)
	registerHandlers(srv, logger)
	if err := srv.Serve(ctx); err != nil {
		logger.Info("connection closed", "err", err)
	}
}

type initializeParams struct {
	ProcessID *int   `json:"processId"`
	RootURI   string `json:"rootUri"`
}

type initializeResult struct {
	Capabilities lsptypes.ServerCapabilities `json:"capabilities"`
}

type hoverParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position lsptypes.Position `json:"position"`
}

func registerHandlers(srv *lspserver.Server, logger *slog.Logger) {
	lspserver.Handle(srv, rpc.MethodInitialize, func(ctx context.Context, p initializeParams) (initializeResult, *rpc.ResponseError) {
		hoverOn := lsptypes.NewCapabilityBool[lsptypes.HoverOptions](true)
		return initializeResult{
			Capabilities: lsptypes.ServerCapabilities{HoverProvider: &hoverOn},
		}, nil
	})

	lspserver.HandleNotify(srv, rpc.MethodInitialized, func(ctx context.Context, p struct{}) *rpc.ResponseError {
		logger.Info("client initialized")
		return nil
	})

	lspserver.Handle(srv, rpc.MethodHover, func(ctx context.Context, p hoverParams) (lsptypes.Hover, *rpc.ResponseError) {
		text := fmt.Sprintf("echo: %s at %d:%d", p.TextDocument.URI, p.Position.Line, p.Position.Character)
		return lsptypes.Hover{Contents: lsptypes.NewHoverContentsString(text)}, nil
	})

	lspserver.HandleOptional(srv, rpc.MethodShutdown, func(ctx context.Context, p struct{}) (struct{}, *rpc.ResponseError) {
		logger.Info("shutdown requested")
		return struct{}{}, nil
	})

	lspserver.HandleNotify(srv, rpc.MethodExit, func(ctx context.Context, p struct{}) *rpc.ResponseError {
		logger.Info("exit notification received")
		return nil
	})
}
