// Package http exposes the tracker as a JSON API: item CRUD, filtered
// listings, aggregate stats, the tag vocabulary and the saved filter
// selection.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"saletrack/internal/cache"
	"saletrack/internal/core"
	applog "saletrack/internal/log"
	"saletrack/internal/prefs"
	"saletrack/internal/services"
)

const (
	listTimeout = 7 * time.Second

	itemsCacheKey = "all"
	itemsCacheTTL = 30 * time.Second
	statsCacheTTL = 30 * time.Second
)

type Server struct {
	http.Server
	svc          *services.ItemService
	prefs        *prefs.Store
	primaryOwner core.Owner
	rateLimiter  *rateLimiter

	// Read caches in front of the remote sheet. Any mutation purges both.
	itemsCache   *cache.LRUCache[[]core.Item]
	summaryCache *cache.LRUCache[core.Summary]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, svc *services.ItemService, prefsStore *prefs.Store, primaryOwner core.Owner, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:              svc,
		prefs:            prefsStore,
		primaryOwner:     primaryOwner,
		rateLimiter:      newRateLimiter(),
		itemsCache:       cache.NewLRUCache[[]core.Item](8, itemsCacheTTL),
		summaryCache:     cache.NewLRUCache[core.Summary](100, statsCacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /api/items", s.handleListItems)
	mux.HandleFunc("POST /api/items", s.handleCreateItem)
	mux.HandleFunc("PATCH /api/items/{id}", s.handlePatchItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteItem)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/details", s.handleDetails)
	mux.HandleFunc("GET /api/filters", s.handleGetFilters)
	mux.HandleFunc("PUT /api/filters", s.handlePutFilters)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	handler := s.withGuards(mux)
	if logger != nil {
		handler = applog.Middleware(logger)(applog.AccessLog(logger)(handler))
	}

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// withGuards adds security headers and rate-limits mutating requests.
func (s *Server) withGuards(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
			if ip := clientAddr(r); !s.rateLimiter.allow(ip) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", ip, "method", r.Method, "url", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// getItems reads the collection through the short-lived cache.
func (s *Server) getItems(ctx context.Context) ([]core.Item, error) {
	if cached, found := s.itemsCache.Get(itemsCacheKey); found {
		out := make([]core.Item, len(cached))
		copy(out, cached)
		return out, nil
	}

	cctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	all, err := s.svc.List(cctx)
	if err != nil {
		return nil, err
	}

	s.itemsCache.Set(itemsCacheKey, all)
	return all, nil
}

// invalidate drops every cached read after a mutation.
func (s *Server) invalidate() {
	s.itemsCache.Purge()
	s.summaryCache.Purge()
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			itemsCleaned := s.itemsCache.CleanExpired()
			statsCleaned := s.summaryCache.CleanExpired()
			if itemsCleaned > 0 || statsCleaned > 0 {
				slog.Debug("Cache cleanup completed",
					"items_entries_removed", itemsCleaned,
					"stats_entries_removed", statsCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
