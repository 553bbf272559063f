package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bindery-dev/bindery/pkg/inspect"
	"github.com/bindery-dev/bindery/pkg/reactive"
	"github.com/bindery-dev/bindery/pkg/telemetry"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	var (
		addr      string
		interval  time.Duration
		namespace string
	)

	rootCmd := &cobra.Command{
		Use:   "bindery-demo",
		Short: "Run a self-mutating reactive model with the inspector attached",
		Long: `bindery-demo builds a small reactive model (a counter cell, a todo
list, and a derived summary), mutates it on a timer, and serves the
state inspector over HTTP.

Endpoints:
  /state    JSON snapshot of all registered sources
  /live     WebSocket stream of changes
  /metrics  Prometheus exposition
  /healthz  liveness probe

Examples:
  bindery-demo
  bindery-demo --addr=:9000 --interval=250ms`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), addr, interval, namespace)
		},
	}

	rootCmd.AddCommand(versionCmd())

	rootCmd.Flags().StringVarP(&addr, "addr", "a", ":8777", "Address to serve the inspector on")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Delay between demo mutations")
	rootCmd.Flags().StringVarP(&namespace, "namespace", "n", "bindery", "Prometheus metric namespace")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bindery-demo %s (%s)\n", version, commit)
		},
	}
}

func runDemo(ctx context.Context, addr string, interval time.Duration, namespace string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	reactive.SetInstrumentation(telemetry.Combine(
		telemetry.NewMetrics(telemetry.WithNamespace(namespace)),
		telemetry.NewTracer(),
	))

	counter := reactive.NewIntCell(0)
	todos := reactive.NewListOf("write docs", "ship it")
	summary := reactive.Derive2(counter.Cell, lengthCell(todos), func(n, open int) string {
		return fmt.Sprintf("%d ticks, %d open todos", n, open)
	})
	defer summary.Close()

	registry := inspect.NewRegistry()
	registry.MustRegister("counter", inspect.CellSource(counter.Cell))
	registry.MustRegister("todos", inspect.ListSource(todos))
	registry.MustRegister("summary", inspect.DerivedSource(summary))

	server := &http.Server{
		Addr:              addr,
		Handler:           inspect.NewServer(registry, inspect.WithLogger(logger)).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("inspector listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go mutate(ctx, interval, counter, todos)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// lengthCell mirrors a list's length into a cell so it can feed Derive2.
func lengthCell(list *reactive.List[string]) *reactive.Cell[int] {
	length := reactive.NewCell(list.Len())
	list.Subscribe(func(reactive.Change[string]) {
		length.Set(list.Len())
	})
	return length
}

// mutate drives the demo model until the context is cancelled.
func mutate(ctx context.Context, interval time.Duration, counter *reactive.IntCell, todos *reactive.List[string]) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		counter.Inc()
		switch n := counter.Get(); {
		case n%5 == 0:
			todos.Push(fmt.Sprintf("task #%d", n))
		case n%7 == 0:
			todos.Pop()
		}
	}
}
