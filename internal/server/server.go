// Package server orchestrates all components: config, lookup store,
// events publisher, TCP listener/acceptor and the HTTP health endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/morezero/netline-server/internal/config"
	"github.com/morezero/netline-server/pkg/commsutil"
	"github.com/morezero/netline-server/pkg/dispatcher"
	"github.com/morezero/netline-server/pkg/events"
	"github.com/morezero/netline-server/pkg/store"
	"github.com/morezero/netline-server/pkg/sysinfo"
)

const logPrefix = "server:server"

// Server is the netline-server orchestrator: it owns the listener, the
// client tracker and the collaborators every session shares.
type Server struct {
	cfg        *config.Config
	store      store.Store
	disp       *dispatcher.Dispatcher
	tracker    *tracker
	publisher  events.Publisher
	listener   net.Listener
	httpServer *http.Server
}

// NewServer wires a Server from its collaborators. A nil publisher
// falls back to NoOp.
func NewServer(cfg *config.Config, st store.Store, publisher events.Publisher) *Server {
	if publisher == nil {
		publisher = &events.NoOpPublisher{}
	}
	tr := &tracker{}
	disp := dispatcher.NewDispatcher(dispatcher.Params{
		Store:      st,
		Clients:    tr,
		Clock:      sysinfo.SystemClock{},
		Platform:   sysinfo.Describe(),
		ServerName: cfg.ServerName,
	})
	return &Server{
		cfg:       cfg,
		store:     st,
		disp:      disp,
		tracker:   tr,
		publisher: publisher,
	}
}

// Start binds the TCP listener and begins accepting connections in a
// background goroutine. A bind failure is fatal and returned.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("%s - failed to bind %s: %w", logPrefix, s.cfg.Addr(), err)
	}
	s.listener = ln
	slog.Info(fmt.Sprintf("%s - Listening on %s", logPrefix, ln.Addr()))

	go s.acceptLoop(ctx)
	return nil
}

// Addr returns the bound listener address. Useful with PORT=0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ActiveClients reports the current session count.
func (s *Server) ActiveClients() int {
	return s.tracker.Count()
}

// acceptLoop accepts connections indefinitely and starts one session
// goroutine per connection, never blocking on session completion.
func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Warn(fmt.Sprintf("%s - accept error: %v", logPrefix, err))
			continue
		}
		go newSession(conn, s.disp, s.tracker, s.publisher, s.cfg.MaxLineBytes).serve(ctx)
	}
}

// Close stops accepting connections. Open sessions run until their
// peers disconnect.
func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}
}

// Run starts the server, blocks until a shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}

	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Starting %s %s", logPrefix, cfg.ServerName, cfg.ServerVersion))
	slog.Info(fmt.Sprintf("%s - Protocol: one JSON object per line (newline-delimited JSON)", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 1: lookup table store
	var st store.Store
	var pool *pgxpool.Pool
	switch strings.ToLower(cfg.LookupBackend) {
	case config.BackendPostgres:
		pool, err = store.NewPgPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
		}
		pg := store.NewPgStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return err
		}
		st = pg
		slog.Info(fmt.Sprintf("%s - Lookup backend: postgres", logPrefix))
	default:
		st = store.NewFileStore(cfg.LookupFile)
		slog.Info(fmt.Sprintf("%s - Lookup backend: file %s", logPrefix, cfg.LookupFile))
	}

	// Step 2: lifecycle events publisher
	var publisher events.Publisher = &events.NoOpPublisher{}
	var nc *comms.Conn
	if cfg.EventsEnabled {
		nc, err = commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
		if err != nil {
			if pool != nil {
				pool.Close()
			}
			return fmt.Errorf("%s - failed to connect to COMMS: %w", logPrefix, err)
		}
		publisher = events.NewCommsPublisher(nc, nil)
	}

	// Step 3: TCP listener
	s := NewServer(cfg, st, publisher)
	if err := s.Start(ctx); err != nil {
		if nc != nil {
			nc.Close()
		}
		if pool != nil {
			pool.Close()
		}
		return err
	}

	// Step 4: HTTP health endpoint
	if cfg.HTTPPort > 0 {
		s.startHealthServer()
	}

	slog.Info(fmt.Sprintf("%s - %s is ready", logPrefix, cfg.ServerName))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	s.Close()
	if s.httpServer != nil {
		s.httpServer.Shutdown(ctx)
	}
	if nc != nil {
		nc.Drain()
	}
	if pool != nil {
		pool.Close()
	}

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// startHealthServer serves /health and /ready on the configured port.
func (s *Server) startHealthServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		healthCtx, cancel := context.WithTimeout(r.Context(), s.cfg.HealthCheckTimeout)
		defer cancel()
		table := s.store.Load(healthCtx)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":         "healthy",
			"active_clients": s.tracker.Count(),
			"lookup_keys":    len(table),
			"timestamp":      sysinfo.SystemClock{}.Now(),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	httpAddr := fmt.Sprintf(":%d", s.cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP health server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()
}
