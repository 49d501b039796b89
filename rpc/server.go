package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"moviewrite/core"
	"moviewrite/crypto"
	"moviewrite/observability"
)

// ServerConfig carries the resolved RPC settings. Secrets are passed in by
// the caller rather than read from the environment here.
type ServerConfig struct {
	AuthToken          string
	JWTSecret          string
	JWTIssuer          string
	RateLimitPerSecond float64
	RateLimitBurst     int
	ReadHeaderTimeout  time.Duration
}

// Server exposes the ledger over JSON-RPC and streams the event log over a
// websocket.
type Server struct {
	node    *core.Node
	cfg     ServerConfig
	logger  *slog.Logger
	auth    *authenticator
	limiter *rateLimiter
	methods map[string]method
}

// handlerFunc serves one JSON-RPC method.
type handlerFunc func(ctx context.Context, req *RPCRequest) (interface{}, error)

type method struct {
	handle handlerFunc
	write  bool
}

func NewServer(node *core.Node, cfg ServerConfig, logger *slog.Logger) (*Server, error) {
	if node == nil {
		return nil, fmt.Errorf("rpc: node must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 5 * time.Second
	}
	srv := &Server{
		node:   node,
		cfg:    cfg,
		logger: logger,
		auth: &authenticator{
			token:  strings.TrimSpace(cfg.AuthToken),
			secret: []byte(strings.TrimSpace(cfg.JWTSecret)),
			issuer: strings.TrimSpace(cfg.JWTIssuer),
			logger: logger,
		},
		limiter: newRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	}
	srv.methods = srv.registerMethods()
	return srv, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Use(s.auth.middleware)
		r.Post("/", s.handle)
		r.Get("/ws/events", s.handleEventsWS)
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(s.Handler(), "moviewrite-rpc"),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting JSON-RPC server", slog.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("rpc: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, &RPCError{Code: codeInvalidRequest, Message: message})
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, &RPCError{Code: codeInvalidRequest, Message: "request body required"})
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, &RPCError{Code: codeParseError, Message: "invalid JSON payload", Data: err.Error()})
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, &RPCError{Code: codeInvalidRequest, Message: "unsupported jsonrpc version", Data: req.JSONRPC})
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, &RPCError{Code: codeInvalidRequest, Message: "method required"})
		return
	}

	m, ok := s.methods[req.Method]
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, &RPCError{Code: codeMethodNotFound, Message: "method not found", Data: req.Method})
		return
	}
	if _, authenticated := identityFromContext(r.Context()); m.write && !authenticated {
		writeError(w, http.StatusUnauthorized, req.ID, unauthorized("authentication required"))
		return
	}

	start := time.Now()
	result, err := m.handle(r.Context(), req)
	observability.ModuleMetrics().Observe(req.Method, err != nil, time.Since(start))
	if err != nil {
		rpcErr := toRPCError(err)
		level := slog.LevelDebug
		if rpcErr.Code == codeServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "rpc call failed",
			slog.String("method", req.Method),
			slog.String("requestid", requestIDFromContext(r.Context())),
			slog.Int("code", rpcErr.Code),
			slog.String("error", err.Error()))
		writeError(w, http.StatusOK, req.ID, rpcErr)
		return
	}
	writeResult(w, req.ID, result)
}

// resolveCaller determines the account a write acts for. JWT holders always
// act as their subject; operators must name the account explicitly.
func resolveCaller(ctx context.Context, claimed string) ([20]byte, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return [20]byte{}, unauthorized("authentication required")
	}
	claimed = strings.TrimSpace(claimed)
	if !id.operator {
		subject, err := crypto.ParseAccount(id.subject)
		if err != nil {
			return [20]byte{}, unauthorized("token subject is not an account")
		}
		if claimed != "" {
			requested, err := crypto.ParseAccount(claimed)
			if err != nil || requested != subject {
				return [20]byte{}, unauthorized("caller does not match token subject")
			}
		}
		return subject, nil
	}
	if claimed == "" {
		return [20]byte{}, invalidParams("caller required")
	}
	caller, err := crypto.ParseAccount(claimed)
	if err != nil {
		return [20]byte{}, invalidParams("invalid caller: %v", err)
	}
	return caller, nil
}

// logCaller records which account a write acted for and how the request
// authenticated.
func (s *Server) logCaller(ctx context.Context, method string, caller [20]byte) {
	auth := "jwt"
	if id, _ := identityFromContext(ctx); id.operator {
		auth = "operator"
	}
	s.logger.Debug("rpc write",
		slog.String("method", method),
		slog.String("requestid", requestIDFromContext(ctx)),
		slog.String("auth", auth),
		slog.String("caller", crypto.FormatAccount(caller)))
}
