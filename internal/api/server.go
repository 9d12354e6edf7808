// Package api exposes the orchestrator and assistant over HTTP.
package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/assistant"
	"github.com/abhisek/adapted/internal/orchestrator"
)

const (
	defaultMaxUpload = 20 << 20
	maxJSONBody      = 1 << 20
	wsReadLimit      = 1 << 20
)

// Options configures a Server. Orchestrator and Assistant are required.
type Options struct {
	Orchestrator   *orchestrator.Orchestrator
	Assistant      *assistant.Service
	AllowedOrigins []string
	// MaxUploadBytes caps PDF uploads. Zero means 20 MiB.
	MaxUploadBytes int64
	// LLMProvider is reported by the health check.
	LLMProvider string
	Logger      *zap.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	orch      *orchestrator.Orchestrator
	assistant *assistant.Service
	origins   []string
	maxUpload int64
	provider  string
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

// NewServer creates a Server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		orch:      opts.Orchestrator,
		assistant: opts.Assistant,
		origins:   opts.AllowedOrigins,
		maxUpload: opts.MaxUploadBytes,
		provider:  opts.LLMProvider,
		logger:    logger.Named("api"),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	agents := api.PathPrefix("/agents").Subrouter()
	agents.HandleFunc("/submit-task", s.submitTask).Methods(http.MethodPost)
	agents.HandleFunc("/generate-tasks", s.generateTasks).Methods(http.MethodPost)
	agents.HandleFunc("/dashboard/{user_id}", s.dashboard).Methods(http.MethodGet)
	agents.HandleFunc("/assign-tasks", s.assignTasks).Methods(http.MethodPost)
	agents.HandleFunc("/teacher-report", s.teacherReport).Methods(http.MethodGet)
	agents.HandleFunc("/profile/{user_id}", s.profile).Methods(http.MethodGet)

	asst := api.PathPrefix("/assistant").Subrouter()
	asst.HandleFunc("/chat", s.chat).Methods(http.MethodPost)
	asst.HandleFunc("/hint", s.hint).Methods(http.MethodPost)
	asst.HandleFunc("/motivation", s.motivation).Methods(http.MethodPost)
	asst.HandleFunc("/documents/upload", s.uploadDocument).Methods(http.MethodPost)
	asst.HandleFunc("/documents/upload-pdf", s.uploadPDF).Methods(http.MethodPost)
	asst.HandleFunc("/ws", s.chatSocket).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	provider := s.provider
	if provider == "" {
		provider = "none"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"llm_provider": provider,
		"timestamp":    time.Now().UTC(),
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
