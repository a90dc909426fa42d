package hrdesk

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/localrivet/hrdesk/internal/config"
	"github.com/localrivet/hrdesk/internal/errortypes"
	"github.com/localrivet/hrdesk/internal/hr"
	"github.com/localrivet/hrdesk/internal/logger"
	"github.com/localrivet/hrdesk/internal/server"
	"github.com/localrivet/hrdesk/internal/store"
	"github.com/localrivet/hrdesk/internal/telemetry"
)

// Config represents the configuration for the HRDesk service.
type Config = config.Config

// Server represents the HRDesk service.
type Server struct {
	config     *config.Config
	store      store.Store
	metrics    *telemetry.Metrics
	service    *hr.Service
	toolServer server.HRToolServer
	logger     *slog.Logger
}

// ServerOptions defines the options for creating a new Server.
type ServerOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.
}

// NewServer creates a new HRDesk Server with the given options.
// If opts.Config is provided, it will be used directly.
// Otherwise, if opts.ConfigPath is provided, configuration will be loaded from that path.
// If neither is provided, DefaultConfig() will be used.
func NewServer(opts ServerOptions) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
		log.Info("Using provided Config object for server initialization")
	} else if opts.ConfigPath != "" {
		log.Info("Loading configuration for server initialization", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			log.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		log.Warn("No Config object or ConfigPath provided, using default configuration for server initialization")
		cfg = DefaultConfig()
	}

	st, metrics, svc, err := CreateComponents(cfg, log)
	if err != nil {
		log.Error("Failed to create components during server initialization", "error", err)
		return nil, err
	}

	log.Info("Initializing HR tool server component")
	toolServer := server.NewHRToolServer(svc,
		server.WithName(cfg.Server.Name),
		server.WithMetrics(metrics),
		server.WithLogger(log))
	if err := toolServer.Initialize(); err != nil {
		log.Error("Failed to initialize MCP HR tool server component", "error", err)
		if st != nil {
			st.Close()
		}
		return nil, errortypes.ConfigError(err, "Failed to initialize MCP HR tool server component")
	}

	log.Info("HRDesk server successfully initialized", "persistent", st != nil)
	return &Server{
		config:     cfg,
		store:      st,
		metrics:    metrics,
		service:    svc,
		toolServer: toolServer,
		logger:     log,
	}, nil
}

// DefaultConfig returns the default configuration for the HRDesk service:
// memory-only state, no ops HTTP server.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// Start runs the MCP stdio server and, when metrics.addr is set, the ops
// HTTP server. It returns when stdin is closed, ctx is cancelled or either
// server fails.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HRDesk service")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return s.toolServer.Start()
	})

	if addr := s.config.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return server.ServeOps(gctx, addr, s.OpsHandler(), logger.GetLogger(s.logger, "ops"))
		})
	}

	return g.Wait()
}

// Stop stops the HRDesk service.
func (s *Server) Stop() error {
	s.logger.Info("Stopping HRDesk service")
	if err := s.toolServer.Stop(); err != nil {
		s.logger.Error("Error stopping tool server", "error", err)
		return err
	}

	if s.store != nil {
		s.logger.Info("Closing store")
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close store", "error", err)
			return err
		}
	}

	s.logger.Info("HRDesk service stopped")
	return nil
}

// OpsHandler returns the operational HTTP handler for this server.
func (s *Server) OpsHandler() http.Handler {
	return server.NewOpsHandler(s.service, s.metrics)
}

// GetService returns the HR service used by the server.
func (s *Server) GetService() *hr.Service {
	return s.service
}

// GetStore returns the store instance used by the server, or nil when state
// is kept in memory only.
func (s *Server) GetStore() store.Store {
	return s.store
}

// GetMetrics returns the metrics collectors used by the server.
func (s *Server) GetMetrics() *telemetry.Metrics {
	return s.metrics
}

// GetToolServer returns the MCP tool server, which can register the HR tools
// on another MCP server.
func (s *Server) GetToolServer() server.HRToolServer {
	return s.toolServer
}

// CreateComponents creates and initializes the components of the HRDesk
// service without creating a server instance. The returned store is nil when
// cfg.Store.SQLitePath is empty.
func CreateComponents(cfg *Config, log *slog.Logger) (store.Store, *telemetry.Metrics, *hr.Service, error) {
	if log == nil {
		log = slog.Default()
		log.Debug("CreateComponents called with nil logger, defaulting to slog.Default()")
	}

	metrics := telemetry.NewMetrics()
	opts := []hr.Option{hr.WithMetrics(metrics), hr.WithLogger(log)}

	if !cfg.Persistent() {
		log.Info("No SQLite path configured, keeping state in memory")
		svc, err := hr.Open(nil, opts...)
		if err != nil {
			return nil, nil, nil, err
		}
		return nil, metrics, svc, nil
	}

	log.Info("Initializing SQLite store for CreateComponents", "path", cfg.Store.SQLitePath)
	st := store.NewSQLiteStore()
	if err := st.Initialize(cfg.Store.SQLitePath); err != nil {
		log.Error("Failed to initialize SQLite store in CreateComponents", "path", cfg.Store.SQLitePath, "error", err)
		return nil, nil, nil, errortypes.DatabaseError(err, "Failed to initialize SQLite store")
	}

	svc, err := hr.Open(st, opts...)
	if err != nil {
		st.Close()
		log.Error("Failed to restore HR state in CreateComponents", "error", err)
		return nil, nil, nil, err
	}

	log.Info("Components successfully initialized via CreateComponents")
	return st, metrics, svc, nil
}
