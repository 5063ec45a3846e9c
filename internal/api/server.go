// Package api exposes the REST layer: JSON handlers over the storage
// interface, plus the duty conflict, schema graph, KPI trend, and sync
// ingest endpoints. Routes live under /api/v1.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/crewdeck/crewdeck/internal/config"
	"github.com/crewdeck/crewdeck/internal/storage"
)

// Server is the REST API server
type Server struct {
	store         storage.Storage
	cfg           config.Server
	logger        *slog.Logger
	ingestLimiter *rate.Limiter
	httpServer    *http.Server
}

// New creates a server wired to the given store
func New(store storage.Storage, cfg config.Server, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:         store,
		cfg:           cfg,
		logger:        logger,
		ingestLimiter: rate.NewLimiter(rate.Limit(cfg.IngestRatePerSecond), cfg.IngestBurst),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can drive
// the mux through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Tasks
	mux.HandleFunc("POST /api/v1/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/v1/tasks", s.handleSearchTasks)
	mux.HandleFunc("GET /api/v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("POST /api/v1/tasks/{id}/close", s.handleCloseTask)

	// Members
	mux.HandleFunc("POST /api/v1/members", s.handleCreateMember)
	mux.HandleFunc("GET /api/v1/members", s.handleListMembers)
	mux.HandleFunc("GET /api/v1/members/{id}", s.handleGetMember)
	mux.HandleFunc("PATCH /api/v1/members/{id}", s.handleUpdateMember)
	mux.HandleFunc("POST /api/v1/members/{id}/deactivate", s.handleDeactivateMember)

	// Duties
	mux.HandleFunc("POST /api/v1/duties", s.handleCreateDuty)
	mux.HandleFunc("GET /api/v1/duties", s.handleListDuties)
	mux.HandleFunc("GET /api/v1/duties/gaps", s.handleDutyGaps)
	mux.HandleFunc("GET /api/v1/duties/{id}", s.handleGetDuty)
	mux.HandleFunc("PATCH /api/v1/duties/{id}", s.handleUpdateDuty)
	mux.HandleFunc("DELETE /api/v1/duties/{id}", s.handleDeleteDuty)

	// Goals
	mux.HandleFunc("POST /api/v1/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/v1/goals", s.handleListGoals)
	mux.HandleFunc("GET /api/v1/goals/{id}", s.handleGetGoal)
	mux.HandleFunc("PATCH /api/v1/goals/{id}", s.handleUpdateGoal)

	// KPIs
	mux.HandleFunc("POST /api/v1/kpis", s.handleCreateKPI)
	mux.HandleFunc("GET /api/v1/kpis", s.handleListKPIs)
	mux.HandleFunc("POST /api/v1/kpis/{id}/points", s.handleAddKPIPoint)
	mux.HandleFunc("GET /api/v1/kpis/{id}/series", s.handleKPISeries)

	// Notifications panel
	mux.HandleFunc("GET /api/v1/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /api/v1/notifications", s.handleCreateNotification)
	mux.HandleFunc("POST /api/v1/notifications/read-all", s.handleReadAllNotifications)
	mux.HandleFunc("POST /api/v1/notifications/{id}/read", s.handleReadNotification)

	// Settings, menu config, email prefs
	mux.HandleFunc("GET /api/v1/settings/{memberID}", s.handleGetSettings)
	mux.HandleFunc("PUT /api/v1/settings/{memberID}", s.handlePutSettings)
	mux.HandleFunc("GET /api/v1/menu/{memberID}/{mode}", s.handleGetMenuConfig)
	mux.HandleFunc("PUT /api/v1/menu/{memberID}/{mode}", s.handlePutMenuConfig)
	mux.HandleFunc("GET /api/v1/email-prefs/{memberID}", s.handleGetEmailPrefs)
	mux.HandleFunc("PUT /api/v1/email-prefs/{memberID}", s.handlePutEmailPrefs)

	// Extension sync ingest
	mux.HandleFunc("POST /api/v1/sync/ingest", s.handleSyncIngest)

	// Schema visualizer
	mux.HandleFunc("GET /api/v1/schema/graph", s.handleSchemaGraph)

	// Audit trail
	mux.HandleFunc("GET /api/v1/events/{kind}/{id}", s.handleGetEvents)

	// Stats and health
	mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	return s.logRequests(mux)
}

// Run serves until ctx is canceled, then shuts down gracefully. The
// retention loop runs alongside when enabled.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	if s.cfg.Retention.Enabled {
		g.Go(func() error {
			s.retentionLoop(ctx)
			return nil
		})
	}

	return g.Wait()
}

// retentionLoop enforces notification and event retention on a ticker
func (s *Server) retentionLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Retention.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCleanup(ctx)
		}
	}
}

func (s *Server) runCleanup(ctx context.Context) {
	removed, err := s.store.CleanupNotificationsByAge(ctx, s.cfg.Retention.NotificationDays)
	if err != nil {
		s.logger.Warn("notification cleanup failed", "error", err)
	} else if removed > 0 {
		s.logger.Info("notification cleanup", "removed", removed)
	}

	removed, err = s.store.CleanupEventsByAge(ctx, s.cfg.Retention.EventDays)
	if err != nil {
		s.logger.Warn("event cleanup failed", "error", err)
	} else if removed > 0 {
		s.logger.Info("event cleanup", "removed", removed)
	}
}

// logRequests is the slog request-logging middleware
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStatistics(r.Context())
	if err != nil {
		s.internalError(w, "failed to get statistics", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
