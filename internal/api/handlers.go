package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/ademuri/streaming-history-tools/internal/logging"
	"github.com/ademuri/streaming-history-tools/internal/metrics"
	"github.com/ademuri/streaming-history-tools/internal/stats"
)

var errBadSession = errors.New("invalid session name")

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("marshaling response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("writing response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionFolder maps a session name onto a directory under the data root.
func (s *Server) sessionFolder(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", errBadSession
	}
	folder := filepath.Join(s.cfg.DataRoot, name)
	info, err := os.Stat(folder)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fs.ErrNotExist
	}
	return folder, nil
}

type bundleHandler func(w http.ResponseWriter, r *http.Request, b *stats.Bundle)

// withBundle resolves the session and makes sure its statistics are computed.
func (s *Server) withBundle(h bundleHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "session")
		folder, err := s.sessionFolder(name)
		switch {
		case errors.Is(err, errBadSession):
			respondError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, fs.ErrNotExist):
			respondError(w, http.StatusNotFound, "unknown session")
			return
		case err != nil:
			logging.Error().Str("session", name).Err(err).Msg("resolving session")
			respondError(w, http.StatusInternalServerError, "session unavailable")
			return
		}

		b, err := s.cache.EnsureComputed(folder)
		if err != nil {
			logging.Error().
				Str("session", name).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Err(err).
				Msg("computing statistics")
			respondError(w, http.StatusInternalServerError, "failed to compute statistics")
			return
		}
		h(w, r, b)
	}
}

func (s *Server) allStats(w http.ResponseWriter, r *http.Request, b *stats.Bundle) {
	respondJSON(w, http.StatusOK, b.All())
}

func (s *Server) topStats(w http.ResponseWriter, r *http.Request, b *stats.Bundle) {
	respondJSON(w, http.StatusOK, b.Top.Result())
}

func (s *Server) generalStats(w http.ResponseWriter, r *http.Request, b *stats.Bundle) {
	respondJSON(w, http.StatusOK, b.General.Result())
}

// topDays ranks days by hours listened. ?limit=N trims the list.
func (s *Server) topDays(w http.ResponseWriter, r *http.Request, b *stats.Bundle) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, b.Daily.DaysByHours(limit))
}

func (s *Server) topYears(w http.ResponseWriter, r *http.Request, b *stats.Bundle) {
	respondJSON(w, http.StatusOK, b.Yearly.Years())
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			metrics.APIRateLimitHits.Inc()
			w.Header().Set("Retry-After", "1")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recordRequests counts requests by route pattern and status.
func recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(route, status)
	})
}
