package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bindery-dev/bindery/pkg/reactive"
)

const (
	// liveWriteTimeout bounds one WebSocket write to a slow client.
	liveWriteTimeout = 10 * time.Second

	// liveBuffer is the per-connection update queue; updates beyond it are
	// dropped rather than blocking the mutating goroutine.
	liveBuffer = 64
)

// Server exposes a Registry over HTTP for dev tooling.
//
// Routes:
//   - GET /healthz  — liveness probe
//   - GET /state    — JSON snapshot of every registered source
//   - GET /metrics  — Prometheus exposition (default registry)
//   - GET /live     — WebSocket stream of change notifications
type Server struct {
	registry       *Registry
	logger         *slog.Logger
	metricsHandler http.Handler
	upgrader       websocket.Upgrader
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler overrides the /metrics handler, e.g. to expose a
// private Prometheus registry.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// NewServer creates an inspector server over the given registry.
func NewServer(registry *Registry, opts ...ServerOption) *Server {
	s := &Server{
		registry:       registry,
		logger:         slog.Default().With("component", "inspect"),
		metricsHandler: promhttp.Handler(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The inspector is a localhost dev tool; origin checks are left
			// to the embedding application's middleware.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the inspector's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/state", s.handleState)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler)
	r.Get("/live", s.handleLive)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.registry.Snapshot()); err != nil {
		s.logger.Error("state encode failed", "error", err)
	}
}

// liveUpdate is one change notification on the /live stream.
type liveUpdate struct {
	Name    string        `json:"name"`
	Kind    reactive.Kind `json:"kind"`
	Payload any           `json:"payload"`
	Time    time.Time     `json:"time"`
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates := make(chan liveUpdate, liveBuffer)
	cancel := s.registry.watchAll(func(name string, kind reactive.Kind, payload any) {
		select {
		case updates <- liveUpdate{Name: name, Kind: kind, Payload: payload, Time: time.Now()}:
		default:
			// Slow consumer; dropping keeps mutators unblocked.
			s.logger.Debug("live update dropped", "source", name)
		}
	})
	defer cancel()

	s.logger.Info("live stream opened", "remote", conn.RemoteAddr())

	// The read loop only detects the peer going away; inbound payloads are
	// ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			s.logger.Info("live stream closed", "remote", conn.RemoteAddr())
			return
		case u := <-updates:
			conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteJSON(u); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure) {
					s.logger.Error("live write failed", "error", err)
				}
				return
			}
		}
	}
}
