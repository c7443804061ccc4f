// Command predictplot serves prediction sessions over HTTP or runs a single session on stdin
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	predictplot "github.com/aouyang1/go-predictplot"
	"github.com/aouyang1/go-predictplot/config"
	"github.com/aouyang1/go-predictplot/server"
	"github.com/aouyang1/go-predictplot/store"
)

const (
	modeServe = "serve"
	modeREPL  = "repl"

	shutdownTimeout = 10 * time.Second
)

var ErrUnknownMode = errors.New("unknown mode")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		slog.Error("predictplot exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("predictplot", flag.ContinueOnError)
	envFile := fs.String("env", "", "path to a .env file, defaults to .env in the working directory")
	noStore := fs.Bool("no-store", false, "do not persist entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode := modeServe
	if fs.NArg() > 0 {
		mode = fs.Arg(0)
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("unable to load configuration, %w", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	opt, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("invalid configuration, %w", err)
	}

	var db *store.Store
	if !*noStore {
		db, err = store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("unable to open entry store, %w", err)
		}
		defer db.Close()
		slog.Info("persisting entries", "driver", db.Driver())
	}

	switch mode {
	case modeServe:
		return serve(ctx, cfg, opt, db)
	case modeREPL:
		// the disclaimer gate only applies to the HTTP surface
		opt.RequireConsent = false
		return repl(ctx, opt, db, stdin, stdout)
	default:
		return fmt.Errorf("got %q, %w", mode, ErrUnknownMode)
	}
}

func serve(ctx context.Context, cfg *config.Config, opt *predictplot.Options, db *store.Store) error {
	var persister predictplot.Persister
	var entries server.EntryLister
	if db != nil {
		persister = db
		entries = db
	}

	sessions, err := server.NewSessionManager(opt, persister)
	if err != nil {
		return err
	}
	srv := server.New(cfg.Addr(), sessions, entries)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
