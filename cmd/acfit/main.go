package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edp1096/acfit/internal/api"
	"github.com/edp1096/acfit/internal/api/handlers"
	"github.com/edp1096/acfit/internal/config"
	"github.com/edp1096/acfit/internal/runner"
	"github.com/edp1096/acfit/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const usage = `Usage:
  acfit run <input_file> [data_file] [--plot] [--table] [--out fig1.png] [--config acfit.yaml]
  acfit serve [--port 8080] [--config acfit.yaml]
`

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runCommand(os.Args[2:], os.Stdout)
	case "serve":
		err = serveCommand(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("acfit failed")
	}
}

func commonFlags(name string) (*pflag.FlagSet, *string) {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	configPath := flags.String("config", "", "config file (default ./acfit.yaml if present)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	flags.String("storage", "", "figure storage backend (none, local, s3, minio)")
	return flags, configPath
}

func setupLogging(cfg config.LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	switch cfg.Format {
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	case "", "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}

func runCommand(args []string, stdout io.Writer) error {
	flags, configPath := commonFlags("run")
	plotNative := flags.Bool("plot", false, "also write the native response plot (HTML)")
	table := flags.Bool("table", false, "print the simulated response table")
	flags.String("out", "", "comparison figure file (png, svg, pdf)")
	flags.String("native-plot", "", "native response plot file")
	flags.String("input-type", "", "input stimulus (voltage, current)")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 || flags.NArg() > 2 {
		return fmt.Errorf("expected <input_file> [data_file], got %d arguments", flags.NArg())
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	content, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	var data []byte
	if flags.NArg() == 2 {
		data, err = os.ReadFile(flags.Arg(1))
		if err != nil {
			return fmt.Errorf("reading data file: %w", err)
		}
	}

	r, err := runner.FromConfig(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	res, err := r.Simulate(ctx, string(content))
	if err != nil {
		return err
	}

	// The native plot does not depend on the measured data.
	if *plotNative {
		if err := writeNativePlot(cfg.Output.NativePlot, res); err != nil {
			return err
		}
	}

	if data != nil {
		if err := r.Compare(res, bytes.NewReader(data)); err != nil {
			return err
		}
	}

	if *table {
		printResults(stdout, res)
	}

	if res.Comparison == nil {
		log.Info().Msg("No data file given, comparison plot not generated")
		return nil
	}

	fig, err := r.Figure(res)
	if err != nil {
		return err
	}
	if err := fig.Save(cfg.Output.Figure); err != nil {
		return err
	}
	log.Info().Str("file", cfg.Output.Figure).Msg("Plot saved")

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	if store != nil {
		if _, err := r.StoreFigure(ctx, res, store); err != nil {
			return err
		}
	}

	return nil
}

func writeNativePlot(path string, res *runner.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating native plot: %w", err)
	}
	if err := res.Solution.PlotResponses(f, res.Sweep.OutputNode); err != nil {
		f.Close()
		return fmt.Errorf("rendering native plot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("file", path).Msg("Native response plot written")
	return nil
}

func serveCommand(args []string) error {
	flags, configPath := commonFlags("serve")
	flags.String("port", "", "listen port")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	r, err := runner.FromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		return err
	}

	router := api.NewRouter(handlers.NewSimulationHandler(r, store), cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Strs("allowed_origins", cfg.Server.AllowedOrigins).Msg("Starting acfit API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited")
	return nil
}
