package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"optiqc/internal/config"
	"optiqc/internal/dataprocessing"
	"optiqc/internal/errors"
	"optiqc/internal/infrastructure"
	customMiddleware "optiqc/internal/middleware"
	"optiqc/internal/report"
	"optiqc/internal/services"
	handlers "optiqc/internal/transport/http"
)

const (
	VERSION = "1.2.0"
	AppName = "OptiQC - Factory Optical Test Reports"
)

var (
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(VERSION))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	ReportService *services.ReportService
	ReportStore   *services.ReportStore
	HealthService *services.HealthService
	Logger        *slog.Logger
	FrontendFS    fs.FS

	storeCancel context.CancelFunc
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION))

	app := &Application{
		Config:     cfg,
		Logger:     logger,
		FrontendFS: frontendFS,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	assembler := dataprocessing.NewAssembler(a.Config.Report.HeaderScanDepth, a.Logger)

	style := report.DefaultStyle()
	style.SpecLimit = a.Config.Report.SpecLimit
	style.BoxFixed = report.Range{Min: a.Config.Report.BoxFixedMin, Max: a.Config.Report.BoxFixedMax}
	style.ControlFixed = report.Range{Min: a.Config.Report.ControlFixedMin, Max: a.Config.Report.ControlFixedMax}
	renderer := report.NewRenderer(style, a.Logger)

	a.ReportService = services.NewReportService(assembler, renderer, a.Logger)
	a.ReportStore = services.NewReportStore(services.DefaultReportTTL, a.Logger)

	storeCtx, cancel := context.WithCancel(context.Background())
	a.storeCancel = cancel
	a.ReportStore.StartJanitor(storeCtx, time.Minute)

	a.HealthService = services.NewHealthService(VERSION, BuildTime, BuildID, a.ReportStore, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(a.getCORSConfig()))

	if a.Config.Server.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	a.setupAPIRoutes(r)
	a.setupFrontend(r)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		errorHandler := errors.NewErrorHandler(a.Logger, false)
		validationMW := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)

		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))
		r.Use(customMiddleware.ContentTypeValidator("application/json", "multipart/form-data"))
		r.Use(validationMW.ValidateRequest)

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		reportHandler := handlers.NewReportHandler(
			a.ReportService,
			a.ReportStore,
			a.Logger,
			errorHandler,
			validationMW,
			a.Config.Server.MaxUploadBytes,
		)
		r.Mount("/reports", reportHandler.Routes())
	})
}

// setupFrontend serves the embedded upload page
func (a *Application) setupFrontend(r chi.Router) {
	if a.FrontendFS == nil {
		a.Logger.Warn("Frontend filesystem not available")
		return
	}

	r.Get("/*", a.serveFrontend(a.FrontendFS))
}

// serveFrontend serves static files from the embedded frontend,
// falling back to index.html for unknown paths.
func (a *Application) serveFrontend(frontendFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := path.Clean(r.URL.Path)

		name := strings.TrimPrefix(urlPath, "/")
		if name == "" {
			name = "index.html"
		}

		file, err := frontendFS.Open(name)
		if err != nil {
			file, err = frontendFS.Open("index.html")
			if err != nil {
				a.Logger.ErrorContext(r.Context(), "Failed to open index.html",
					slog.String("error", err.Error()),
					slog.String("path", urlPath))
				http.Error(w, "Frontend not available", http.StatusServiceUnavailable)
				return
			}
			name = "index.html"
		}
		defer file.Close()

		switch {
		case strings.HasSuffix(name, ".html"):
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		case strings.HasSuffix(name, ".css"):
			w.Header().Set("Content-Type", "text/css")
		case strings.HasSuffix(name, ".js"):
			w.Header().Set("Content-Type", "application/javascript")
		case strings.HasSuffix(name, ".svg"):
			w.Header().Set("Content-Type", "image/svg+xml")
		case strings.HasSuffix(name, ".ico"):
			w.Header().Set("Content-Type", "image/x-icon")
		}

		io.Copy(w, file)
	}
}

// getCORSConfig returns CORS configuration based on environment
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}

	if a.isDevelopmentMode() {
		cfg.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
			fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
		}
	} else {
		cfg.AllowedOrigins = []string{
			fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
			fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
		}
	}

	return cfg
}

// isDevelopmentMode detects if we're running in development mode
func (a *Application) isDevelopmentMode() bool {
	if env := os.Getenv("GO_ENV"); env == "development" {
		return true
	}
	return false
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the application
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	url := fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", url))

	// Open browser once the server answers health checks
	go a.openBrowserWhenReady(ctx, url)

	return nil
}

// openBrowserWhenReady polls the health endpoint and opens the browser
// once the server is serving.
func (a *Application) openBrowserWhenReady(ctx context.Context, url string) {
	healthURL := url + "/api/health"
	client := &http.Client{Timeout: 2 * time.Second}

	for i := 0; i < 10; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		resp, err := client.Get(healthURL)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			if err := openBrowser(url); err != nil {
				infrastructure.WithError(a.Logger, err).Error("Failed to open browser",
					slog.String("url", url))
				fmt.Printf("\n%s is running. Open your browser at %s\n\n", AppName, url)
			}
			return
		}
		if resp != nil {
			resp.Body.Close()
		}

		time.Sleep(500 * time.Millisecond)
	}

	a.Logger.Error("Server did not become ready for browser opening",
		slog.String("url", url))
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.storeCancel != nil {
		a.storeCancel()
	}

	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

// openBrowser opens the default browser to the specified URL
func openBrowser(url string) error {
	var lastErr error

	for _, method := range getBrowserOpenMethods(url) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		cmd := exec.CommandContext(ctx, method.cmd, method.args...)
		err := cmd.Start()
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to open browser: %w", lastErr)
}

// browserMethod represents a method to open the browser
type browserMethod struct {
	cmd  string
	args []string
}

// getBrowserOpenMethods returns platform-specific browser opening methods
func getBrowserOpenMethods(url string) []browserMethod {
	switch runtime.GOOS {
	case "windows":
		return []browserMethod{
			{cmd: "cmd", args: []string{"/c", "start", "", url}},
			{cmd: "rundll32", args: []string{"url.dll,FileProtocolHandler", url}},
		}
	case "darwin":
		return []browserMethod{
			{cmd: "open", args: []string{url}},
		}
	default:
		return []browserMethod{
			{cmd: "xdg-open", args: []string{url}},
			{cmd: "sensible-browser", args: []string{url}},
		}
	}
}
