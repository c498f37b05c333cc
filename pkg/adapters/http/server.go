package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/toyrobot"
	"github.com/aretw0/toyrobot/internal/logging"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/positions"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NotPlacedMessage is the payload returned when the log is empty.
const NotPlacedMessage = "Robot is not placed"

// PositionLog defines what the API needs from the position log.
type PositionLog interface {
	AppendRequest(ctx context.Context, fields map[string]any) (domain.Record, error)
	Latest(ctx context.Context) (domain.Record, error)
	Recent(ctx context.Context, limit int) ([]domain.Record, error)
}

// Server serves the position log over HTTP.
type Server struct {
	Log     PositionLog
	Metrics *Metrics
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics uses the given collectors instead of a fresh registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// NewHandler creates a new HTTP handler for the position log.
func NewHandler(log PositionLog, opts ...Option) http.Handler {
	server := &Server{
		Log:    log,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Metrics == nil {
		server.Metrics = NewMetrics()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(server.Metrics.instrument)
	r.Use(enableCORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/robotCurrentPosition", server.GetCurrentPosition)
		r.Post("/robotCurrentPosition", server.PostCurrentPosition)
		r.Get("/robotHistoricalPosition", server.GetHistoricalPosition)
	})

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec())
	})
	r.Handle("/metrics", server.Metrics.Handler())

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// errorResponse is the error-shaped body used by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

// GetCurrentPosition handles GET /api/robotCurrentPosition.
// An empty log is not a failure: it answers 200 with an error payload.
func (s *Server) GetCurrentPosition(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Log.Latest(r.Context())
	if errors.Is(err, domain.ErrNotPlaced) {
		s.writeJSON(w, http.StatusOK, errorResponse{Error: NotPlacedMessage})
		return
	}
	if err != nil {
		s.Logger.Error("Latest position failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load position"})
		return
	}

	s.writeJSON(w, http.StatusOK, rec)
}

// PostCurrentPosition handles POST /api/robotCurrentPosition.
func (s *Server) PostCurrentPosition(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.Logger.Warn("PostCurrentPosition: Invalid request body", "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	// A body that is not an object carries no fields.
	fields, ok := body.(map[string]any)
	if !ok {
		fields = map[string]any{}
	}

	rec, err := s.Log.AppendRequest(r.Context(), fields)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.Metrics.rejected.WithLabelValues(verr.Reason).Inc()
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Reason})
			return
		}
		s.Logger.Error("Append position failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to record position"})
		return
	}

	s.Metrics.appends.WithLabelValues(rec.Direction.Wire()).Inc()
	s.writeJSON(w, http.StatusCreated, rec)
}

// GetHistoricalPosition handles GET /api/robotHistoricalPosition.
func (s *Server) GetHistoricalPosition(w http.ResponseWriter, r *http.Request) {
	limit := positions.MaxRecent
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.Log.Recent(r.Context(), limit)
	if err != nil {
		s.Logger.Error("Recent positions failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load history"})
		return
	}
	if records == nil {
		records = []domain.Record{}
	}

	s.writeJSON(w, http.StatusOK, records)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "toyrobot-http",
		"version":     strings.TrimSpace(toyrobot.Version),
		"api_version": apiVersion,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}
