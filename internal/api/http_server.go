package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"zippyhand/internal/config"
	"zippyhand/internal/database"
	"zippyhand/internal/domain"
	"zippyhand/internal/metrics"
	"zippyhand/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the public booking surface and the session-gated admin
// surface over JSON.
type HTTPServer struct {
	cfg      *config.Config
	bookings *service.BookingService
	admin    *service.AdminService
	catalog  *service.CatalogService
	sessions domain.SessionService
	server   *http.Server
	limiter  *ipLimiter
	logger   *zerolog.Logger
}

func NewHTTPServer(
	cfg *config.Config,
	bookings *service.BookingService,
	admin *service.AdminService,
	catalog *service.CatalogService,
	sessions domain.SessionService,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		admin:    admin,
		catalog:  catalog,
		sessions: sessions,
		limiter:  newIPLimiter(cfg.Booking.RateLimitRPS, cfg.Booking.RateLimitBurst),
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/bookings", srv.handleSubmitBooking)
	mux.HandleFunc("/api/v1/services", srv.handleListServices)
	mux.HandleFunc("/api/v1/booking-options", srv.handleBookingOptions)
	mux.HandleFunc("/api/v1/admin/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/admin/logout", srv.requireSession(srv.handleLogout))
	mux.HandleFunc("/api/v1/admin/bookings", srv.requireSession(srv.handleAdminBookings))
	mux.HandleFunc("/api/v1/admin/bookings/", srv.requireSession(srv.handleAdminBookingByID))
	mux.HandleFunc("/api/v1/admin/services", srv.requireSession(srv.handleAdminServices))
	mux.HandleFunc("/api/v1/admin/services/", srv.requireSession(srv.handleAdminServiceByID))
	mux.HandleFunc("/api/v1/admin/stats", srv.requireSession(srv.handleStats))
	mux.HandleFunc("/healthz", srv.handleHealthz)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.loggingMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps layered errors onto HTTP statuses. Validation
// failures carry the offending field; store failures surface as 502 so
// callers can tell a rejected request from a broken backend.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Message,
			"field": verr.Field,
		})
		return
	}
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ipLimiter rate-limits public submissions per client address.
type ipLimiter struct {
	rps      float64
	burst    int
	limiters sync.Map // map[string]*rate.Limiter
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &ipLimiter{rps: rps, burst: burst}
}

func (l *ipLimiter) allow(r *http.Request) bool {
	if l.rps <= 0 {
		return true
	}
	return l.get(clientAddr(r)).Allow()
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func clientAddr(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			fwd = strings.TrimSpace(fwd[:idx])
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}
