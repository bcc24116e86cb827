// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/yassine-work/Chatbot-v2/internal/config"
	"github.com/yassine-work/Chatbot-v2/internal/logging"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the listen address the client's default endpoint
	// points at.
	DefaultAddr = ":8000"

	// MaxRequestBodySize bounds POST /chat bodies.
	MaxRequestBodySize = 1 * 1024 * 1024

	// Version is reported by /health.
	Version = "0.1.0"
)

// ============================================================================
// WIRE TYPES
// ============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is a successful reply.
type ChatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Answerer      string `json:"answerer"`
	Cache         string `json:"cache"`
	CacheEntries  int    `json:"cache_entries"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server. Nil Answerer and Cache are built from Config.
type Options struct {
	Config   config.ServerConfig
	Answerer Answerer
	Cache    Cache
	Logger   *logging.Logger
}

// Server is the development responder.
type Server struct {
	cfg      config.ServerConfig
	answerer Answerer
	cache    Cache
	logger   *logging.Logger
	metrics  *Metrics
	limiter  *RateLimiter
	router   *http.ServeMux
	started  time.Time

	mu     sync.Mutex
	server *http.Server
}

// New creates a Server. It connects to Redis when RedisAddr is set.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	cfg := opts.Config
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.CacheTTLSecs <= 0 {
		cfg.CacheTTLSecs = int(DefaultCacheTTL / time.Second)
	}
	if cfg.CacheMaxEntries <= 0 {
		cfg.CacheMaxEntries = DefaultCacheMaxEntries
	}

	cache := opts.Cache
	if cache == nil {
		if cfg.RedisAddr != "" {
			rc, err := NewRedisCache(context.Background(), cfg.RedisAddr, cfg.RedisDB)
			if err != nil {
				return nil, fmt.Errorf("failed to connect cache: %w", err)
			}
			cache = rc
		} else {
			cache = NewMemoryCache()
		}
	}

	answerer := opts.Answerer
	if answerer == nil {
		if cfg.OpenRouterKey != "" {
			answerer = NewOpenRouter(cfg.OpenRouterKey).WithModel(cfg.Model, cfg.MaxTokens, cfg.Temperature)
		} else {
			answerer = Fallback{}
		}
	}

	s := &Server{
		cfg:      cfg,
		answerer: answerer,
		cache:    cache,
		logger:   logger.With("component", "server"),
		metrics:  NewMetrics(),
		limiter:  NewRateLimiter(cfg.RatePerSec, cfg.Burst),
		router:   http.NewServeMux(),
		started:  time.Now(),
	}
	s.setupRoutes()
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /chat", s.handleChat)
	s.router.HandleFunc("OPTIONS /chat", s.handleChatOptions)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.Handle("GET /metrics", s.metrics.Handler())
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	cors := DefaultCORSConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		cors.AllowedOrigins = s.cfg.AllowedOrigins
	}

	return Chain(
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger, s.metrics),
		CORSMiddleware(cors),
		RateLimitMiddleware(s.limiter, s.metrics),
	)(s.router)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("bad chat request", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	answer, err := s.Answer(r.Context(), req.Query)
	if err != nil {
		s.logger.Error("answer failed", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: answer})
}

func (s *Server) handleChatOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:        "ok",
		Version:       Version,
		Answerer:      answererName(s.answerer),
		Cache:         cacheName(s.cache),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
	n, err := s.cache.Len(r.Context())
	if err != nil {
		health.Status = "degraded"
	}
	health.CacheEntries = n
	writeJSON(w, http.StatusOK, health)
}

// ============================================================================
// PIPELINE
// ============================================================================

// Answer runs a raw query through sanitize, cache and answerer. Cache
// failures are logged and treated as misses.
func (s *Server) Answer(ctx context.Context, query string) (string, error) {
	sanitized := Sanitize(query)
	key := CacheKey(sanitized)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed", "key", key, "error", err)
	}
	if ok {
		s.metrics.cacheHits.Inc()
		s.logger.Debug("cache hit", "query", sanitized)
		return cached, nil
	}
	s.metrics.cacheMisses.Inc()

	start := time.Now()
	answer, err := s.answerer.Answer(ctx, sanitized)
	s.metrics.observeAnswer(time.Since(start))
	if err != nil {
		return "", err
	}

	s.store(ctx, key, answer)
	return answer, nil
}

// store caches answer unless the cache is full.
func (s *Server) store(ctx context.Context, key, answer string) {
	n, err := s.cache.Len(ctx)
	if err != nil {
		s.logger.Warn("cache size failed", "error", err)
		return
	}
	if n >= s.cfg.CacheMaxEntries {
		s.logger.Info("cache full, skipping store", "entries", n)
		return
	}
	ttl := time.Duration(s.cfg.CacheTTLSecs) * time.Second
	if err := s.cache.Set(ctx, key, answer, ttl); err != nil {
		s.logger.Warn("cache store failed", "key", key, "error", err)
	}
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr, "version", Version, "answerer", answererName(s.answerer))
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
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server and closes the cache.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	var err error
	if srv != nil {
		s.logger.Info("server shutting down")
		err = srv.Shutdown(ctx)
	}
	if cerr := s.cache.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// ============================================================================
// HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func answererName(a Answerer) string {
	switch a.(type) {
	case *OpenRouter:
		return "openrouter"
	case Fallback:
		return "fallback"
	default:
		return "custom"
	}
}

func cacheName(c Cache) string {
	switch c.(type) {
	case *RedisCache:
		return "redis"
	case *MemoryCache:
		return "memory"
	default:
		return "custom"
	}
}
