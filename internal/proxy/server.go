// Package proxy serves a cached mirror of the registry's opendata endpoints.
// It keeps the upstream query surface (ut, lc, id) and relays upstream
// bodies byte-for-byte, so existing registry consumers can be pointed at
// the proxy unchanged.
package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	edbo "github.com/edbo-tools/edbo-go"
	"github.com/edbo-tools/edbo-go/internal/log"
)

// Server handles proxy traffic against one upstream client.
type Server struct {
	client *edbo.Client
	logger zerolog.Logger
}

// New creates a proxy server around the given registry client.
func New(client *edbo.Client) *Server {
	return &Server{
		client: client,
		logger: log.WithComponent("proxy"),
	}
}

// Router builds the HTTP handler: the four mirrored endpoints plus health
// and metrics, with per-IP rate limiting and request logging.
func (s *Server) Router(requestsPerMinute int) http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger))
	r.Use(httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded","detail":"Too many requests. Please try again later."}`))
		}),
	))

	r.Get("/api/universities", s.handleUniversities)
	r.Get("/api/university", s.handleUniversity)
	r.Get("/api/institutions", s.handleInstitutions)
	r.Get("/api/school", s.handleSchool)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return otelhttp.NewHandler(r, "edbo-proxy")
}

func (s *Server) handleUniversities(w http.ResponseWriter, r *http.Request) {
	ut, ok := queryInt(w, r, "ut")
	if !ok {
		return
	}
	lc, ok := queryInt(w, r, "lc")
	if !ok {
		return
	}

	params := edbo.NewSearchParams().
		WithRegion(edbo.Region(lc)).
		WithUniversityCategory(edbo.UniversityCategory(ut))

	body, err := s.client.UniversitiesRaw(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, body)
}

func (s *Server) handleUniversity(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "id")
	if !ok {
		return
	}

	body, err := s.client.UniversityRaw(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, body)
}

func (s *Server) handleInstitutions(w http.ResponseWriter, r *http.Request) {
	ut, ok := queryInt(w, r, "ut")
	if !ok {
		return
	}
	lc, ok := queryInt(w, r, "lc")
	if !ok {
		return
	}

	params := edbo.NewSearchParams().
		WithRegion(edbo.Region(lc)).
		WithInstitutionCategory(edbo.InstitutionCategory(ut))

	body, err := s.client.InstitutionsRaw(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, body)
}

func (s *Server) handleSchool(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "id")
	if !ok {
		return
	}

	body, err := s.client.SchoolRaw(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps client errors to proxy status codes. Parameter problems
// are the caller's fault; everything else reflects upstream state.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *edbo.MissingParamError
	var invalid *edbo.InvalidParamError

	status := http.StatusBadGateway
	code := "upstream_error"
	switch {
	case errors.As(err, &missing), errors.As(err, &invalid):
		status = http.StatusBadRequest
		code = "invalid_request"
	case errors.Is(err, edbo.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, edbo.ErrForbidden):
		status = http.StatusBadGateway
		code = "upstream_forbidden"
	case errors.Is(err, edbo.ErrRateLimited):
		status = http.StatusTooManyRequests
		code = "upstream_rate_limited"
	case errors.Is(err, edbo.ErrTimeout):
		status = http.StatusGatewayTimeout
		code = "upstream_timeout"
	}

	s.logger.Warn().
		Err(err).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, map[string]string{
		"error":  code,
		"detail": err.Error(),
	})
}

func queryInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid_request",
			"detail": "missing query parameter: " + key,
		})
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid_request",
			"detail": "query parameter " + key + " must be an integer",
		})
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw relays an upstream body without re-encoding it, so unknown
// registry fields and wire-level number forms survive the proxy.
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
