// Command shrdlite планує і виконує англійські команди у світі кубиків.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youryharchenko/go-shrdlite/config"
	"github.com/youryharchenko/go-shrdlite/logging"
	"github.com/youryharchenko/go-shrdlite/planner"
	"github.com/youryharchenko/go-shrdlite/world"
)

var (
	// Глобальні прапорці
	configPath  string
	verbose     bool
	metricsAddr string
	timeout     time.Duration
	algorithm   string
	heuristic   string
	worldName   string
	worldFile   string
	traceSpans  bool

	cfg           *config.Config
	logger        *zap.Logger
	metricsServer *http.Server
	stopTracing   func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "shrdlite",
	Short: "Blocks-world command planner",
	Long: `shrdlite interprets English commands about a blocks world and plans
the arm actions (l, r, p, d) that make them true.

  shrdlite plan --world small "put the white ball in a box on the floor"
  shrdlite plan --goal "ontop(f,floor)"
  shrdlite repl --world medium`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}

		if traceSpans {
			stopTracing, err = setupTracing(os.Stderr)
			if err != nil {
				return err
			}
		}
		if cfg.Metrics.Addr != "" {
			startMetrics(cfg.Metrics.Addr)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath, "config file (YAML)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	pf.DurationVar(&timeout, "timeout", 0, "search time limit (overrides config)")
	pf.StringVar(&algorithm, "algorithm", "", "search algorithm: astar or bfs")
	pf.StringVar(&heuristic, "heuristic", "", "heuristic: obstruction, distance or none")
	pf.StringVarP(&worldName, "world", "w", "", "built-in world name")
	pf.StringVar(&worldFile, "world-file", "", "world YAML file (overrides --world)")
	pf.BoolVar(&traceSpans, "trace", false, "print OpenTelemetry spans to stderr")

	rootCmd.AddCommand(planCmd, replCmd, worldsCmd, shuffleCmd)
}

// applyFlags накладає явно задані прапорці поверх конфігу.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.Planner.Timeout = timeout.String()
	}
	if flags.Changed("algorithm") {
		cfg.Planner.Algorithm = algorithm
	}
	if flags.Changed("heuristic") {
		cfg.Planner.Heuristic = heuristic
	}
	if flags.Changed("world") {
		cfg.World.Name = worldName
		cfg.World.File = ""
	}
	if flags.Changed("world-file") {
		cfg.World.File = worldFile
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
}

func startMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	log := logger
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	metricsServer = srv
	logger.Info("serving metrics", zap.String("addr", addr))
}

// loadWorld завантажує світ з файлу або вбудований за назвою.
func loadWorld() (world.World, error) {
	if cfg.World.File != "" {
		return world.Load(cfg.World.File)
	}
	return world.Builtin(cfg.World.Name)
}

func newService() *planner.Service {
	return planner.New(cfg, logger)
}

// cleanup зупиняє трасування і сервер метрик та скидає лог.
// Кличеться після Execute за будь-якого результату команди.
func cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if stopTracing != nil {
		_ = stopTracing(ctx)
		stopTracing = nil
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(ctx)
		metricsServer = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cleanup()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
