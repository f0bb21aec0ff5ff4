// Package server exposes the dashboard over a small JSON API and keeps it
// fresh with a periodic reload.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gorilla/mux"
	"k8s.io/klog/v2"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/output"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server serves one Loader and its Submitter.
type Server struct {
	loader    *kpiboard.Loader
	submitter *kpiboard.Submitter
	opts      kpiboard.Options
	router    *mux.Router
}

// New returns a server. opts supplies the clock and location used for exports.
func New(loader *kpiboard.Loader, submitter *kpiboard.Submitter, opts kpiboard.Options) *Server {
	s := &Server{
		loader:    loader,
		submitter: submitter,
		opts:      opts,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(withLogger, cors)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/records", s.handleRecords).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/export.xlsx", s.handleExport).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run loads the dashboard once, then serves on addr and reloads it in retry
// mode every interval until ctx is cancelled. A zero interval disables the
// reload.
func (s *Server) Run(ctx context.Context, addr string, interval time.Duration) error {
	log := klog.FromContext(ctx)

	if _, err := s.loader.Load(ctx, kpiboard.LoadOptions{Mode: kpiboard.ModeInitial}); err != nil {
		log.Error(err, "initial load failed, serving error state")
	}

	if interval > 0 {
		go s.StartScheduler(ctx, interval)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// StartScheduler reloads the dashboard every interval until ctx is done.
func (s *Server) StartScheduler(ctx context.Context, interval time.Duration) {
	log := klog.FromContext(ctx)
	scheduler := gocron.NewScheduler(time.UTC)

	_, err := scheduler.Every(interval).WaitForSchedule().Do(func() {
		log.V(1).Info("scheduled refresh")
		if _, err := s.loader.Load(ctx, kpiboard.LoadOptions{Mode: kpiboard.ModeRetry}); err != nil && !errors.Is(err, kpiboard.ErrSuperseded) {
			log.Error(err, "scheduled refresh failed")
		}
	})
	if err != nil {
		log.Error(err, "failed to schedule refresh")
		return
	}

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()
	log.Info("refresh scheduler stopped")
}

type snapshotResponse struct {
	Data       interface{} `json:"data"`
	Origin     string      `json:"origin"`
	Source     string      `json:"source"`
	Message    string      `json:"message"`
	Warning    string      `json:"warning,omitempty"`
	Generation uint64      `json:"generation"`
	LoadedAt   time.Time   `json:"loadedAt"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type submitResponse struct {
	OK         bool   `json:"ok"`
	Total      int    `json:"total"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
	FirstError string `json:"firstError,omitempty"`
	Summary    string `json:"summary"`
	RefreshErr string `json:"refreshError,omitempty"`
}

func newSnapshotResponse(snap *kpiboard.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		Data:       snap.Data,
		Origin:     string(snap.Origin),
		Source:     snap.Source,
		Message:    snap.Message,
		Generation: snap.Generation,
		LoadedAt:   snap.LoadedAt,
	}
	if snap.Warning != nil {
		resp.Warning = snap.Warning.Error()
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  string(s.loader.State()),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.loader.Snapshot()
	if snap == nil {
		s.writeUnavailable(w, r)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, newSnapshotResponse(snap))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.loader.Load(r.Context(), kpiboard.LoadOptions{Mode: kpiboard.ModeInitial})
	switch {
	case errors.Is(err, kpiboard.ErrSuperseded):
		snap = s.loader.Snapshot()
	case err != nil:
		writeJSON(r.Context(), w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	if snap == nil {
		s.writeUnavailable(w, r)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, newSnapshotResponse(snap))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in kpiboard.FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	snap := s.loader.Snapshot()
	if snap == nil {
		s.writeUnavailable(w, r)
		return
	}
	entries, err := kpiboard.BuildEntries(snap.Data, in)
	if err != nil {
		var verr *kpiboard.ValidationError
		if errors.As(err, &verr) {
			writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
			return
		}
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.submitter.Submit(ctx, entries)
	switch {
	case errors.Is(err, kpiboard.ErrSourceNotConfigured):
		writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Error: "no writable data source is configured"})
		return
	case errors.Is(err, kpiboard.ErrNoEntries):
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := submitResponse{
		OK:         res.OK(),
		Total:      res.Total,
		Succeeded:  res.Succeeded,
		Failed:     res.Failed,
		FirstError: res.FirstError,
		Summary:    res.Summary(),
	}
	if res.RefreshErr != nil {
		resp.RefreshErr = res.RefreshErr.Error()
	}
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusBadGateway
	}
	writeJSON(ctx, w, status, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap := s.loader.Snapshot()
	if snap == nil {
		s.writeUnavailable(w, r)
		return
	}
	today := s.opts.Today()
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "indicadores-"+today.String()+".xlsx"))
	if err := output.WriteWorkbook(w, snap.Data, today); err != nil {
		klog.FromContext(r.Context()).Error(err, "export failed")
	}
}

func (s *Server) writeUnavailable(w http.ResponseWriter, r *http.Request) {
	msg := "dashboard not loaded yet"
	if err := s.loader.Err(); err != nil {
		msg = err.Error()
	}
	writeJSON(r.Context(), w, http.StatusServiceUnavailable, errorResponse{Error: msg})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	body, err := output.Marshal(v, false)
	if err != nil {
		klog.FromContext(ctx).Error(err, "encode response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := klog.FromContext(r.Context()).WithValues("method", r.Method, "path", r.URL.Path)
		logger.V(2).Info("request")
		next.ServeHTTP(w, r.WithContext(klog.NewContext(r.Context(), logger)))
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
