package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vango-dev/memokit/internal/config"
	"github.com/vango-dev/memokit/internal/errors"
	"github.com/vango-dev/memokit/pkg/hooks"
	"github.com/vango-dev/memokit/pkg/telemetry"
	"github.com/vango-dev/memokit/pkg/toast"
	"github.com/vango-dev/memokit/pkg/toast/toasthttp"
)

type serveOptions struct {
	configPath string
	addr       string
	dev        bool
	hookOrder  string
	logLevel   string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the toast notification service",
		Long: `Run an HTTP server exposing a toast provider.

Routes:
  GET    /toast/      current toast as JSON
  POST   /toast/      show a toast {"message": "...", "type": "success"}
  DELETE /toast/      hide the toast
  GET    /toast/ws    WebSocket stream of toast snapshots
  GET    /metrics     Prometheus metrics
  GET    /healthz     liveness probe

Settings come from memokit.json or memokit.yaml in the working
directory, or from --config. Flags override the file.

Examples:
  memokit serve
  memokit serve --addr=:9000 --dev
  memokit serve --config=deploy/memokit.yaml --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (default: memokit.json or memokit.yaml)")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Enable development checks")
	cmd.Flags().StringVar(&opts.hookOrder, "hook-order", "", "Hook order check: off, warn or panic")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	return cmd
}

// loadConfig reads path, or the config in the working directory, or falls
// back to defaults when there is none.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if found, ok := config.Find("."); ok {
		return config.LoadFile(found)
	}
	return config.New(), nil
}

func applyOverrides(cfg *config.Config, opts serveOptions) error {
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.dev {
		cfg.Dev.Enabled = true
	}
	if opts.hookOrder != "" {
		cfg.Dev.HookOrder = opts.hookOrder
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg.Validate()
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	logger := slog.New(handler)
	if cfg.Name != "" {
		logger = logger.With("service", cfg.Name)
	}
	return logger
}

// service is everything memokit serve runs.
type service struct {
	router   chi.Router
	provider *toast.Provider
	toast    *toasthttp.Server
	registry *prometheus.Registry
}

func newService(cfg *config.Config, logger *slog.Logger) *service {
	s := &service{}

	var observers []hooks.Observer
	if cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, telemetry.Prometheus(
			telemetry.WithRegistry(s.registry),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
		))
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, telemetry.Tracing(
			telemetry.WithTracerName(cfg.Tracing.TracerName),
		))
	}

	s.provider = toast.NewProvider(
		toast.WithDelay(cfg.ToastDelay()),
		toast.WithLogger(logger),
		toast.WithInstanceOptions(hooks.WithObserver(hooks.Observers(observers...))),
	)
	s.toast = toasthttp.New(s.provider, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Mount(cfg.Toast.Path, s.toast)
	if s.registry != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	s.router = r

	return s
}

// Close disconnects subscribers and stops the provider.
func (s *service) Close() {
	s.toast.Close()
	s.provider.Close()
}

// requestLogger logs one line per request through logger.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return err
	}

	hooks.DevMode = cfg.Dev.Enabled
	hooks.HookOrderCheck = cfg.HookOrderMode()

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	svc := newService(cfg, logger)
	defer svc.Close()

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	info("Toast API   http://%s%s/", cfg.Server.Addr, cfg.Toast.Path)
	if cfg.Metrics.Enabled {
		info("Metrics     http://%s%s", cfg.Server.Addr, cfg.Metrics.Path)
	}
	fmt.Println()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           svc.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("server started", "addr", cfg.Server.Addr, "dev", cfg.Dev.Enabled, "hook_order", cfg.Dev.HookOrder)

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E140").WithDetailf("Listening on %s failed.", cfg.Server.Addr).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\n  Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	svc.toast.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("E140").WithDetail("Graceful shutdown did not finish.").Wrap(err)
	}
	success("Stopped")
	return nil
}
