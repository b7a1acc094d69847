// Package rpc exposes the vesting engine over HTTP: chi routing, JWT bearer
// auth on the admin and schedule-creator surface, a rate limiter on the
// public claim endpoint, and JSON handlers modeled on the teacher's
// JSON-RPC envelope (rpc/http.go, rpc_claimable_handlers.go).
package rpc

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/metrics"
	"github.com/blackelite/vestd/internal/vesting"
)

type requestIDKey struct{}

// headerRequestID is the header vestctl and other operator tooling set to
// correlate a request across the CLI's own log and the server's.
const headerRequestID = "X-Request-Id"

// Server wires the vesting engine and access control into an HTTP API.
type Server struct {
	engine *vesting.Engine
	ctrl   *access.Control
	auth   *Authenticator
	claim  *RateLimiter
}

// New constructs a Server. auth gates the admin/schedule-creator routes;
// claimLimiter throttles the public claim routes.
func New(engine *vesting.Engine, ctrl *access.Control, auth *Authenticator, claimLimiter *RateLimiter) *Server {
	return &Server{engine: engine, ctrl: ctrl, auth: auth, claim: claimLimiter}
}

// Router builds the chi router exposing every vestd RPC method.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1/claim", func(cr chi.Router) {
		if s.claim != nil {
			cr.Use(s.claim.Middleware)
		}
		cr.Post("/", s.handleClaim)
		cr.Post("/purchase", s.handleClaimWithPayment)
	})

	r.Route("/v1", func(ar chi.Router) {
		if s.auth != nil {
			ar.Use(s.auth.Middleware)
		}
		ar.Post("/schedules", s.handleCreate)
		ar.Post("/schedules/release", s.handleRelease)
		ar.Post("/schedules/release-all", s.handleReleaseAll)
		ar.Post("/schedules/revoke", s.handleRevoke)
		ar.Post("/withdraw", s.handleWithdraw)
		ar.Post("/config/merkle-root", s.handleSetMerkleRoot)
		ar.Post("/config/vtoken-cost", s.handleSetVTokenCost)
		ar.Post("/config/payment-receiver", s.handleSetPaymentReceiver)
		ar.Post("/roles/grant", s.handleGrantRole)
		ar.Post("/roles/revoke", s.handleRevokeRole)
		ar.Post("/pause", s.handlePause)
		ar.Post("/unpause", s.handleUnpause)
		ar.Post("/admin/handover/begin", s.handleBeginHandover)
		ar.Post("/admin/handover/cancel", s.handleCancelHandover)
		ar.Post("/admin/handover/accept", s.handleAcceptHandover)
	})

	r.Route("/v1/query", func(qr chi.Router) {
		qr.Get("/schedules/{id}", s.handleScheduleByID)
		qr.Get("/beneficiaries/{address}/schedules/{index}", s.handleScheduleByIndex)
		qr.Get("/beneficiaries/{address}/schedule-count", s.handleScheduleCount)
		qr.Get("/schedules/{id}/releasable", s.handleReleasable)
		qr.Get("/withdrawable", s.handleWithdrawable)
		qr.Get("/merkle-root", s.handleMerkleRoot)
		qr.Get("/claims/{fingerprint}", s.handleIsClaimed)
	})

	return r
}

// observe wraps every request with RPC latency/outcome metrics, mirroring
// the teacher's per-module Observability middleware (gateway/routes/router.go).
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RPC().Observe(r.URL.Path, rec.status, time.Since(start))
		if rec.status >= http.StatusInternalServerError {
			slog.Default().Error("rpc request failed", "request_id", requestIDFromContext(r.Context()), "path", r.URL.Path, "status", rec.status)
		}
	})
}

// requestID assigns every request a correlation ID, honoring one supplied
// by the caller (vestctl and similar operator tooling set X-Request-Id) and
// minting a fresh UUID otherwise. The ID is echoed back on the response and
// stashed in the request context for handlers and logging to pick up.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestIDFromContext retrieves the correlation ID requestID stored, or
// empty string if the middleware was not installed (e.g. a unit test
// constructing a handler directly).
func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
