package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/san-kum/gridview/internal/frames"
	"github.com/san-kum/gridview/internal/loader"
	"github.com/san-kum/gridview/internal/metrics"
	"github.com/san-kum/gridview/internal/playback"
	"github.com/san-kum/gridview/internal/raster"
	"github.com/san-kum/gridview/internal/theme"
	"github.com/san-kum/gridview/internal/viewer"
)

//go:embed static/index.html
var static embed.FS

// Config contains configuration options for the web server.
type Config struct {
	Address   string
	Library   *loader.Library
	Raster    raster.Options
	Theme     theme.Theme
	Delay     time.Duration
	Scheduler playback.Scheduler
	Logger    *slog.Logger
}

// Server serves the browser front end: the page, test listing, frame
// PNGs and one playback session per browser.
type Server struct {
	address string
	lib     *loader.Library
	raster  raster.Options
	theme   theme.Theme
	delay   time.Duration
	sched   playback.Scheduler
	logger  *slog.Logger
	page    *template.Template
	server  *http.Server

	mu       sync.Mutex
	sessions map[string]*session
}

func New(cfg Config) (*Server, error) {
	page, err := template.ParseFS(static, "static/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = playback.WallClock
	}
	if cfg.Delay <= 0 {
		cfg.Delay = playback.DefaultDelay
	}
	if cfg.Raster.UnitSize <= 0 {
		cfg.Raster = raster.DefaultOptions()
	}
	if cfg.Theme.Name == "" {
		cfg.Theme = theme.Cyberpunk
	}

	s := &Server{
		address:  cfg.Address,
		lib:      cfg.Library,
		raster:   cfg.Raster,
		theme:    cfg.Theme,
		delay:    cfg.Delay,
		sched:    cfg.Scheduler,
		logger:   cfg.Logger,
		page:     page,
		sessions: make(map[string]*session),
	}
	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/tests", s.handleTests)
	mux.HandleFunc("GET /api/tests/{name}/{role}/{index}", s.handleFrame)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/select", s.handleSelect)
	mux.HandleFunc("POST /api/sessions/{id}/{action}", s.handleAction)
	mux.HandleFunc("GET /api/sessions/{id}/events", s.handleEvents)

	return mux
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.address)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err == nil {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.address, err)
	case <-ctx.Done():
	}
	s.logger.Info("shutting down HTTP server")

	s.closeSessions()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error", "err", err)
		return s.server.Close()
	}
	return nil
}

// Close drops every session and the listener.
func (s *Server) Close() error {
	s.closeSessions()
	return s.server.Close()
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tests": s.lib.Len()})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Names  []string
		Size   int
		Delay  int64
		Theme  theme.Theme
		Off    string
		Border string
	}{
		Names:  s.lib.Names(),
		Size:   s.raster.PixelSize(),
		Delay:  s.delay.Milliseconds(),
		Theme:  s.theme,
		Off:    s.theme.Off(),
		Border: s.theme.Border(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		http.Error(w, "Error executing template: "+err.Error(), http.StatusInternalServerError)
	}
}

type testInfo struct {
	Name      string  `json:"name"`
	Frames    int     `json:"frames"`
	Actual    int     `json:"actual"`
	Predicted int     `json:"predicted"`
	Exact     int     `json:"exact"`
	Accuracy  float64 `json:"accuracy"`
	Error     string  `json:"error,omitempty"`
}

func (s *Server) handleTests(w http.ResponseWriter, r *http.Request) {
	names := s.lib.Names()
	out := make([]testInfo, 0, len(names))
	for _, name := range names {
		info := testInfo{Name: name}
		if pair, err := s.lib.Get(name); err != nil {
			info.Error = err.Error()
		} else {
			info.Frames = pair.Len()
			info.Actual = pair.Actual.Len()
			info.Predicted = pair.Predicted.Len()
			sum := metrics.Compare(pair, metrics.NewAccuracy())
			info.Exact = sum.Exact
			info.Accuracy = sum.Metrics["accuracy"]
		}
		out = append(out, info)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	pair, err := s.lib.Get(r.PathValue("name"))
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	seq, err := pair.Sequence(frames.Role(r.PathValue("role")))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid frame index")
		return
	}
	if index < 0 || index >= seq.Len() {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("frame %d out of range [0,%d)", index, seq.Len()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	if err := raster.PNG(w, seq[index], s.raster); err != nil {
		s.logger.Warn("encode frame", "test", r.PathValue("name"), "index", index, "err", err)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := newSession(newSessionID())
	sess.viewer = viewer.New(s.lib,
		viewer.WithDelay(s.delay),
		viewer.WithScheduler(s.sched),
		viewer.WithLogger(s.logger.With("session", sess.id)),
		viewer.WithDrawFunc(sess.broadcast),
	)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", "session", sess.id)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": sess.id})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := r.PathValue("id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown session %q", id))
	}
	return sess, ok
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.close()
	s.logger.Debug("session closed", "session", sess.id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req struct {
		Test string `json:"test"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	ctrl, err := sess.viewer.Select(req.Test)
	if err != nil {
		// The previous test is gone; streams must stop showing its frame.
		sess.broadcast(playback.Snapshot{Test: req.Test})
		status := http.StatusUnprocessableEntity
		if errors.Is(err, frames.ErrUnknownTest) {
			status = http.StatusNotFound
		}
		s.writeJSONError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	ctrl := sess.viewer.Active()
	if ctrl == nil {
		s.writeJSONError(w, http.StatusConflict, "no test selected")
		return
	}
	switch action := r.PathValue("action"); action {
	case "play":
		ctrl.Play()
	case "pause":
		ctrl.Pause()
	case "toggle":
		ctrl.Toggle()
	case "step":
		ctrl.Step()
	case "back":
		ctrl.Back()
	case "first":
		ctrl.Seek(0)
	case "last":
		ctrl.Seek(ctrl.Len() - 1)
	default:
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown action %q", action))
		return
	}
	s.writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

// handleEvents streams every drawn snapshot as a server-sent "frame" event
// until the client goes away or the session is closed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := sess.subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sess.done:
			fmt.Fprint(w, "event: close\ndata: {}\n\n")
			flusher.Flush()
			return
		case snap := <-ch:
			data, err := json.Marshal(snap)
			if err != nil {
				s.logger.Warn("encode snapshot", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: frame\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
