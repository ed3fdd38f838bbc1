// Command blogd serves the posts API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/logging"
)

var moduleBuilder = func(ctx context.Context, cfg blog.Config) (*blog.Module, error) {
	return blog.New(ctx, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runServer(ctx, os.Args[1:], os.Stdout, nil); err != nil {
		log.Fatalf("blogd: %v", err)
	}
}

// runServer serves until ctx is done. When ready is not nil it receives the
// bound address once the listener is up.
func runServer(ctx context.Context, args []string, out io.Writer, ready chan<- string) error {
	fs := flag.NewFlagSet("blogd", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to a YAML or TOML config file")
	addr := fs.String("addr", "", "Listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := blog.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	module, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	handler, err := module.Handler()
	if err != nil {
		return err
	}
	logger := logging.HTTPLogger(module.Container().LoggerProvider())

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return err
	}
	logger.Info("server.listening", "addr", listener.Addr().String(), "storage", cfg.Storage.Provider)
	fmt.Fprintf(out, "blogd listening on %s\n", listener.Addr())
	if ready != nil {
		ready <- listener.Addr().String()
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("server.shutdown")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
