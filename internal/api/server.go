// Package api serves the statistics of uploaded export folders over HTTP.
//
// Each session is a subdirectory of the data root holding one extracted
// export. Only the most recently requested session stays computed.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/ademuri/streaming-history-tools/internal/session"
)

type Config struct {
	// DataRoot holds one extracted export per subdirectory.
	DataRoot string

	AllowedOrigins []string

	// RateLimit is the sustained request rate per second for the session
	// endpoints. Zero disables limiting.
	RateLimit float64
	Burst     int
}

type Server struct {
	cfg     Config
	cache   *session.Cache
	limiter *rate.Limiter
}

func New(cfg Config, cache *session.Cache) *Server {
	s := &Server{cfg: cfg, cache: cache}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(recordRequests)

	r.Get("/api/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/sessions/{session}", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/all-stats", s.withBundle(s.allStats))
		r.Get("/top-stats", s.withBundle(s.topStats))
		r.Get("/general-stats", s.withBundle(s.generalStats))
		r.Get("/top-days", s.withBundle(s.topDays))
		r.Get("/top-years", s.withBundle(s.topYears))
	})

	return r
}
