// Package toasthttp exposes a toast.Provider over HTTP.
//
// Routes:
//
//	GET    /     current state as JSON
//	POST   /     show a toast: {"message": "...", "type": "success"}
//	DELETE /     hide the toast
//	GET    /ws   WebSocket stream of state snapshots
//
// Mount it under any prefix with chi:
//
//	r.Mount("/toast", toasthttp.Handler(provider, logger))
package toasthttp

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/memokit/internal/errors"
	"github.com/vango-dev/memokit/pkg/toast"
)

const (
	// maxBodyBytes bounds POST bodies.
	maxBodyBytes = 64 << 10

	// writeWait is the time allowed to write one message to a subscriber.
	writeWait = 10 * time.Second
)

// Message is one snapshot pushed to WebSocket subscribers.
type Message struct {
	Event string      `json:"event"`
	State toast.State `json:"state"`
}

type showRequest struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Server serves a provider. It is an http.Handler.
type Server struct {
	provider *toast.Provider
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// Handler returns the HTTP handler for p. A nil logger means slog.Default().
func Handler(p *toast.Provider, logger *slog.Logger) http.Handler {
	return New(p, logger)
}

// New creates a Server for p. A nil logger means slog.Default().
func New(p *toast.Provider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		provider: p,
		logger:   logger,
		clients:  make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.getState)
	r.Post("/", s.show)
	r.Delete("/", s.hide)
	r.Get("/ws", s.stream)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.State())
}

func (s *Server) show(w http.ResponseWriter, r *http.Request) {
	var req showRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		s.writeError(w, errors.New("E080").WithDetail("The request body is not valid JSON.").Wrap(err))
		return
	}
	if req.Message == "" {
		s.writeError(w, errors.New("E080").WithDetail(`The "message" field is required.`))
		return
	}

	t := toast.TypeInfo
	if req.Type != "" {
		parsed, err := toast.ParseType(req.Type)
		if err != nil {
			s.writeError(w, errors.FromError(err, "E081"))
			return
		}
		t = parsed
	}

	s.provider.Show(req.Message, t)
	s.logger.Debug("toast shown via http", "type", string(t), "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, s.provider.State())
}

func (s *Server) hide(w http.ResponseWriter, r *http.Request) {
	s.provider.Hide()
	writeJSON(w, http.StatusOK, s.provider.State())
}

func (s *Server) writeError(w http.ResponseWriter, err *errors.Error) {
	s.logger.Info("toast request rejected", "code", err.Code, "detail", err.Detail)
	writeJSON(w, http.StatusBadRequest, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
