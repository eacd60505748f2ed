package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sjsage522/pricewatch/internal/crawler"
	"sjsage522/pricewatch/logger"
	"sjsage522/pricewatch/services/snapshot"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
)

// SnapshotReader is the read side of the snapshot store
type SnapshotReader interface {
	// Get returns a fresh snapshot, refreshing or falling back to a stale one as needed
	Get(ctx context.Context) (snapshot.Snapshot, error)

	// Current returns the latest snapshot without triggering a refresh
	Current() (snapshot.Snapshot, bool)
}

// Server serves price snapshots over HTTP
type Server struct {
	store  SnapshotReader
	router chi.Router
	log    *logger.Logger
}

// NewServer creates the API router. allowedOrigins configures CORS.
func NewServer(store SnapshotReader, allowedOrigins []string) *Server {
	s := &Server{
		store:  store,
		router: chi.NewRouter(),
		log:    logger.ForComponent("api"),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/prices", s.handlePrices)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/summary", s.handleSummary)
	})

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handlePrices returns the non-empty source results of the current snapshot
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, withItems(snap.Results))
}

// handleSnapshot returns the snapshot with its id and capture time
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	snap.Results = withItems(snap.Results)
	s.respondJSON(w, http.StatusOK, snap)
}

// handleSummary returns price statistics, with an alert check when ?alert= is set
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var threshold *decimal.Decimal
	if raw := r.URL.Query().Get("alert"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || !d.IsPositive() {
			s.respondError(w, http.StatusBadRequest, "Please enter a valid price")
			return
		}
		threshold = &d
	}

	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	summary := Summarize(withItems(snap.Results), threshold)
	summary.SnapshotID = snap.ID
	summary.CapturedAt = snap.CapturedAt
	s.respondJSON(w, http.StatusOK, summary)
}

// handleHealth reports liveness and the age of the current snapshot
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":   "ok",
		"snapshot": false,
	}
	if snap, ok := s.store.Current(); ok {
		resp["snapshot"] = true
		resp["snapshot_id"] = snap.ID
		resp["captured_at"] = snap.CapturedAt
		resp["age_seconds"] = int(time.Since(snap.CapturedAt).Seconds())
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// snapshot loads the snapshot for a request, writing the error response on
// failure. Refreshes are detached from request cancellation.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (snapshot.Snapshot, bool) {
	snap, err := s.store.Get(context.WithoutCancel(r.Context()))
	if err != nil {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("Error fetching prices")
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch prices")
		return snapshot.Snapshot{}, false
	}
	return snap, true
}

// withItems drops results that carry no items
func withItems(results []crawler.SourceResult) []crawler.SourceResult {
	filtered := make([]crawler.SourceResult, 0, len(results))
	for _, result := range results {
		if len(result.Items) > 0 {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
