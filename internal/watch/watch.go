// Package watch re-audits a project whenever its sources change and serves
// the latest report to dashboard clients over HTTP and WebSocket.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/modernapi/modernapi/internal/engine"
	"github.com/modernapi/modernapi/internal/models"
	"github.com/modernapi/modernapi/internal/report"
	"github.com/modernapi/modernapi/internal/websocket"
)

const debounce = 300 * time.Millisecond

// reportStore holds the most recent report for HTTP readers. Reports are
// immutable once produced, so handing out the pointer is safe.
type reportStore struct {
	mu     sync.RWMutex
	latest *models.ProjectReport
}

func (s *reportStore) Set(r *models.ProjectReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = r
}

func (s *reportStore) Get() *models.ProjectReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Watcher runs the audit loop for one project root.
type Watcher struct {
	engine *engine.Engine
	root   string
	addr   string
	hub    *websocket.Hub
	store  reportStore
	log    zerolog.Logger
}

// New creates a watcher serving on addr.
func New(e *engine.Engine, root, addr string, log zerolog.Logger) *Watcher {
	return &Watcher{
		engine: e,
		root:   root,
		addr:   addr,
		hub:    websocket.NewHub(log),
		log:    log,
	}
}

// Run audits once, then blocks re-auditing on file changes until ctx is
// cancelled. The HTTP server and hub live for the duration of the call.
func (w *Watcher) Run(ctx context.Context) error {
	go w.hub.Run()

	if err := w.audit(ctx); err != nil {
		return err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer fsWatcher.Close()

	if err := addWatchRecursive(fsWatcher, w.root); err != nil {
		return fmt.Errorf("watch setup failed: %w", err)
	}

	server := &http.Server{Addr: w.addr, Handler: w.routes()}
	go func() {
		w.log.Info().Str("addr", w.addr).Msg("dashboard listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			w.log.Error().Err(err).Msg("dashboard server failed")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	debounceEvents(ctx, fsWatcher.Events, fsWatcher.Errors, w.log, func() {
		if err := w.audit(ctx); err != nil {
			w.log.Error().Err(err).Msg("re-audit failed")
		}
	})
	return nil
}

// debounceEvents coalesces bursts of relevant events and invokes run after
// a quiet period. run is called from this goroutine only, so audits never
// overlap and reports publish in order; events arriving during a run are
// buffered by the watcher and coalesce into the next one.
func debounceEvents(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, log zerolog.Logger, run func()) {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev := <-events:
			if !relevantEvent(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			run()
		case err := <-errs:
			log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", w.hub.ServeWS)
	r.Get("/api/report", func(rw http.ResponseWriter, req *http.Request) {
		latest := w.store.Get()
		if latest == nil {
			http.Error(rw, "no report yet", http.StatusNotFound)
			return
		}
		data, err := report.JSON(latest)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		rw.Write(data)
	})
	r.Get("/", func(rw http.ResponseWriter, req *http.Request) {
		latest := w.store.Get()
		if latest == nil {
			http.Error(rw, "no report yet", http.StatusNotFound)
			return
		}
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := report.HTML(rw, latest); err != nil {
			w.log.Error().Err(err).Msg("rendering dashboard failed")
		}
	})
	return r
}

func (w *Watcher) audit(ctx context.Context) error {
	result, err := w.engine.Run(ctx, w.root)
	if err != nil {
		return err
	}
	w.store.Set(result)
	w.hub.Broadcast("report", result)
	return nil
}

// relevantEvent filters out noise that should not trigger a re-audit.
func relevantEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".go") || ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules") {
				return fs.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}
