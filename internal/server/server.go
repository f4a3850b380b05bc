// internal/server/server.go
//
// Webhook HTTP surface.
//
// Context
// -------
// The server is the external collaborator in front of the trust
// boundary: it extracts the raw body and the signature header, hands
// both to the verifier, and maps the typed error onto a transport
// status.  Unauthorized rejects the individual delivery with 401; the
// process never crashes on a classified input.
//
// Routes
// ------
//   - POST /webhook            – verify, journal, ack
//   - GET  /healthz            – liveness
//   - GET  /miniapp/handshake  – handshake payload, when configured
//   - GET  /metrics            – Prometheus registry
//
// Notes
// -----
//   - Neither the secret nor any computed signature is ever logged; the
//     request log carries method, path, status, and duration only.
//   - A journal write failure is logged and counted but never turns a
//     verified delivery into an error response.

package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vuhn/zalokit/internal/apperr"
	"github.com/vuhn/zalokit/internal/metrics"
	"github.com/vuhn/zalokit/internal/miniapp"
	"github.com/vuhn/zalokit/internal/webhook"
)

// SignatureHeader carries the hex HMAC of the request body.
const SignatureHeader = "X-ZEvent-Signature"

// DefaultMaxBody caps webhook request bodies at 1 MiB.
const DefaultMaxBody = int64(1 << 20)

// Recorder is the journal surface the server needs.  Nil disables
// journalling.
type Recorder interface {
	Record(ctx context.Context, digest string, bodyBytes int) error
}

// Options configures a Server.  Verifier and Logger are required.
type Options struct {
	Addr     string
	Verifier *webhook.Verifier
	Logger   *zap.SugaredLogger
	Journal  Recorder         // optional
	MiniApp  *miniapp.Context // optional
	MaxBody  int64            // optional, DefaultMaxBody when zero
}

// Server owns the HTTP listener for the webhook surface.
type Server struct {
	opts Options
	http *http.Server
}

// New builds a server; it does not listen until Start.
func New(opts Options) *Server {
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	return &Server{opts: opts}
}

// Start listens until ctx is cancelled, then drains with a five-second
// grace period.  Returns ctx.Err() after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.http = newHTTPServer(s.opts.Addr, s.Router())

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.opts.Logger.Infow("webhook server listening", "addr", s.opts.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return apperr.Wrap(apperr.Internal, "webhook server shutdown", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return apperr.Wrap(apperr.Internal, "webhook server", err)
	}
}

// Router builds the chi handler tree.  Exposed for httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(s.requestLog)
	r.Use(hardenHeaders)
	r.Use(chimw.Recoverer)

	r.Post("/webhook", s.handleWebhook)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/miniapp/handshake", s.handleHandshake)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

/*─────────────────────────────── handlers ──────────────────────────────────*/

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	metrics.WebhookRequestsTotal.Inc()

	body, err := io.ReadAll(io.LimitReader(r.Body, s.opts.MaxBody+1))
	if err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}
	if int64(len(body)) > s.opts.MaxBody {
		s.respond(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "body too large"})
		return
	}

	if err := s.opts.Verifier.Verify(body, r.Header.Get(SignatureHeader)); err != nil {
		metrics.WebhookUnauthorizedTotal.Inc()
		status := http.StatusUnauthorized
		if apperr.KindOf(err) != apperr.Unauthorized {
			status = http.StatusInternalServerError
		}
		s.respond(w, status, map[string]string{"error": err.Error()})
		return
	}

	metrics.WebhookAcceptedTotal.Inc()

	if s.opts.Journal != nil {
		digest := sha256.Sum256(body)
		if err := s.opts.Journal.Record(r.Context(), hex.EncodeToString(digest[:]), len(body)); err != nil {
			metrics.JournalWriteErrorsTotal.Inc()
			s.opts.Logger.Warnw("journal write failed", "err", err)
		}
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "up"})
}

func (s *Server) handleHandshake(w http.ResponseWriter, _ *http.Request) {
	if s.opts.MiniApp == nil {
		s.respond(w, http.StatusNotFound, map[string]string{"error": "no mini app configured"})
		return
	}
	s.respond(w, http.StatusOK, s.opts.MiniApp.Handshake())
}

func (s *Server) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.opts.Logger.Warnw("response encode failed", "err", err)
	}
}

/*────────────────────────────── middleware ─────────────────────────────────*/

// requestLog logs method, path, status, and duration.  Bodies and
// signature headers stay out of the log.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.opts.Logger.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// hardenHeaders sets the response headers an API-only surface needs.
func hardenHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// newHTTPServer centralises production timeouts so cmd/bot does not
// repeat boilerplate: slow-loris headers (10 s), total response (15 s),
// idle keep-alives (60 s).
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
