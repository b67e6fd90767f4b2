package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sensa-code/climb"
	"github.com/sensa-code/climb/crawl"
	"github.com/sensa-code/climb/task"
)

// recentLimit caps the GET /recent listing.
const recentLimit = 20

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	dir := deps.outputDir(c.Output)
	srv := &server{
		dir:    dir,
		store:  deps.NewStore(dir),
		ledger: deps.NewLedger(dir),
		fetch:  deps.Fetch,
		runner: deps.Runner,
		logger: deps.Logger,
	}

	httpServer := &http.Server{
		Addr:              c.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-deps.Ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	deps.Logger.Info("listening", "addr", c.Addr, "output", dir)
	fmt.Fprintf(deps.Stdout, "listening on %s\n", c.Addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// server handles the local ingestion API. It exists so a browser
// extension or other local tool can hand over articles from pages that
// need a logged-in session.
type server struct {
	dir    string
	store  climb.ArticleStore
	ledger climb.Ledger
	fetch  crawl.FetchFunc
	runner *task.Runner
	logger *slog.Logger
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /save", s.handleSave)
	mux.HandleFunc("POST /fetch", s.handleFetch)
	mux.HandleFunc("DELETE /tasks/{id}", s.handleCancelTask)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /recent", s.handleRecent)
	return mux
}

// handleSave stores an article submitted by the caller, bypassing the
// fetch pipeline entirely.
func (s *server) handleSave(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		URL       string `json:"url"`
		Platform  string `json:"platform"`
		FetchedBy string `json:"fetched_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.FetchedBy == "" {
		body.FetchedBy = "manual"
	}
	platform := body.Platform
	if platform == "" {
		platform = climb.Classify(body.URL).Name
	}

	article := &climb.Article{
		Title:    body.Title,
		Content:  body.Content,
		URL:      body.URL,
		Platform: platform,
		Strategy: climb.Strategy(body.FetchedBy),
	}
	path, err := s.store.Save(r.Context(), article)
	if err != nil {
		s.error(w, statusFor(err), climb.ErrorMessage(err))
		return
	}
	if body.URL != "" {
		if err := s.ledger.MarkFetched(body.URL); err != nil {
			s.logger.Warn("ledger update failed", "url", body.URL, "error", err)
		}
	}
	s.json(w, http.StatusCreated, map[string]string{"path": path})
}

// handleFetch submits a pipeline fetch as a background task and returns
// its id immediately.
func (s *server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		s.error(w, http.StatusBadRequest, "url required")
		return
	}

	taskID := "fetch-" + uuid.NewString()
	results := make(chan task.Result, 1)
	err := s.runner.Submit(taskID, func(ctx context.Context, progress chan<- task.Progress) error {
		article, err := s.fetch(ctx, body.URL)
		if err != nil {
			return err
		}
		if _, err := s.store.Save(ctx, article); err != nil {
			return err
		}
		if err := s.ledger.MarkFetched(body.URL); err != nil {
			s.logger.Warn("ledger update failed", "url", body.URL, "error", err)
		}
		return nil
	}, nil, results)
	if err != nil {
		s.error(w, statusFor(err), climb.ErrorMessage(err))
		return
	}
	go func() { <-results }()

	s.json(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

func (s *server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.runner.Cancel(id) {
		s.error(w, http.StatusNotFound, "no such task")
		return
	}
	s.json(w, http.StatusOK, map[string]any{"task_id": id, "cancelled": true})
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("task"); id != "" {
		s.json(w, http.StatusOK, map[string]any{"task_id": id, "running": s.runner.IsRunning(id)})
		return
	}
	s.json(w, http.StatusOK, map[string]string{"status": "ok", "output": s.dir})
}

// handleRecent lists the newest saved articles by scanning the sidecar
// metadata of each article directory.
func (s *server) handleRecent(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.json(w, http.StatusOK, []any{})
			return
		}
		s.error(w, http.StatusInternalServerError, "cannot read output directory")
		return
	}

	type entry struct {
		Path      string `json:"path"`
		Title     string `json:"title"`
		URL       string `json:"url"`
		Platform  string `json:"platform"`
		FetchedAt string `json:"fetched_at"`
	}
	recent := []entry{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var item entry
		if err := json.Unmarshal(data, &item); err != nil {
			continue
		}
		item.Path = filepath.Join(s.dir, e.Name())
		recent = append(recent, item)
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].FetchedAt > recent[j].FetchedAt })
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	s.json(w, http.StatusOK, recent)
}

func (s *server) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) error(w http.ResponseWriter, status int, msg string) {
	s.json(w, status, map[string]string{"error": msg})
}

// statusFor maps application error codes to HTTP status codes.
func statusFor(err error) int {
	switch climb.ErrorCode(err) {
	case climb.EINVALID:
		return http.StatusBadRequest
	case climb.ENOTFOUND:
		return http.StatusNotFound
	case climb.EFORBIDDEN:
		return http.StatusForbidden
	case climb.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
