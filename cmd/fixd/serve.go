package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zfq308/fixd/pkg/logging"
	"github.com/zfq308/fixd/pkg/server"
)

type serveFlags struct {
	port        int
	workers     int
	maxCaptured int
	routesFile  string
	logLevel    string
	logFormat   string
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a fixd fixture server in the foreground",
		Example: `  # Start on an OS-assigned port
  fixd serve

  # Start on a fixed port with canned routes
  fixd serve --port 8080 --routes routes.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(f)
		},
	}

	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "TCP port to listen on (0 = OS-assigned)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "async worker pool size (0 = default)")
	cmd.Flags().IntVar(&f.maxCaptured, "max-captured", -1, "maximum captured requests retained (-1 = unbounded)")
	cmd.Flags().StringVar(&f.routesFile, "routes", "", "path to a YAML file declaring canned routes")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "text", "log format: text, json")

	return cmd
}

func runServe(f *serveFlags) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Format: logging.ParseFormat(f.logFormat),
		Output: os.Stderr,
	})

	srv := server.New(
		server.WithPort(f.port),
		server.WithMaxCaptured(f.maxCaptured),
		server.WithLogger(log),
		server.WithWorkers(f.workers),
	)

	if f.routesFile != "" {
		if err := loadRoutesFile(srv, f.routesFile); err != nil {
			return err
		}
	}

	if err := srv.Start(); err != nil {
		return fmt.Errorf("fixd: starting server: %w", err)
	}
	log.Info("fixd server listening", "addr", srv.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("fixd server shutting down")
	return srv.Stop()
}
