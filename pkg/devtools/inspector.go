package devtools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/statekit-dev/statekit/pkg/authstate"
	"github.com/statekit-dev/statekit/pkg/reactive"
	"github.com/statekit-dev/statekit/pkg/uistate"
)

// Inspector serves a local HTTP endpoint exposing redacted snapshots of
// registered stores, a Prometheus metrics endpoint and a live WebSocket
// change feed.
type Inspector struct {
	name   string
	logger *slog.Logger

	mu       sync.RWMutex
	auth     *authstate.Store
	sidebar  *uistate.Sidebar
	watchers []*reactive.Watcher

	feed   *feed
	router chi.Router
	server *http.Server
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithName sets the console name included in snapshots.
func WithName(name string) Option {
	return func(i *Inspector) { i.name = name }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) { i.logger = logger }
}

// New creates an Inspector with no stores registered.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		logger: slog.Default(),
		feed:   newFeed(),
	}
	for _, opt := range opts {
		opt(i)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", i.handleHealth)
	r.Get("/state", i.handleState)
	r.Get("/ws", i.feed.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	i.router = r

	return i
}

// RegisterAuth attaches a credential store. Subsequent changes to the
// store are pushed to feed clients with header values redacted.
func (i *Inspector) RegisterAuth(store *authstate.Store) {
	i.mu.Lock()
	i.auth = store
	i.mu.Unlock()

	w := reactive.Watch(func() reactive.Cleanup {
		sess := store.Signal().Get()
		i.feed.broadcast(Event{
			Store: "auth",
			State: authSnapshotOf(sess),
			Time:  time.Now(),
		})
		return nil
	})

	i.mu.Lock()
	i.watchers = append(i.watchers, w)
	i.mu.Unlock()
}

// RegisterSidebar attaches a sidebar store to the inspector.
func (i *Inspector) RegisterSidebar(sb *uistate.Sidebar) {
	i.mu.Lock()
	i.sidebar = sb
	i.mu.Unlock()

	w := reactive.Watch(func() reactive.Cleanup {
		open := sb.Signal().Get()
		i.feed.broadcast(Event{
			Store: "sidebar",
			State: sidebarSnapshot{Open: open},
			Time:  time.Now(),
		})
		return nil
	})

	i.mu.Lock()
	i.watchers = append(i.watchers, w)
	i.mu.Unlock()
}

// Handler returns the inspector's HTTP handler for mounting into an
// existing router.
func (i *Inspector) Handler() http.Handler {
	return i.router
}

// ListenAndServe starts the inspector server on addr and blocks until
// the server stops.
func (i *Inspector) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           i.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	i.mu.Lock()
	i.server = srv
	i.mu.Unlock()

	i.logger.Info("devtools inspector listening", "addr", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server, disconnects feed clients and stops all
// store watchers.
func (i *Inspector) Shutdown(ctx context.Context) error {
	i.mu.Lock()
	srv := i.server
	watchers := i.watchers
	i.watchers = nil
	i.mu.Unlock()

	for _, w := range watchers {
		w.Stop()
	}
	i.feed.close()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

type snapshot struct {
	Name    string           `json:"name,omitempty"`
	Auth    *authSnapshot    `json:"auth,omitempty"`
	Sidebar *sidebarSnapshot `json:"sidebar,omitempty"`
}

type authSnapshot struct {
	AuthType            string `json:"authType"`
	Username            string `json:"username,omitempty"`
	AuthorizationHeader string `json:"authorizationHeader"`
}

type sidebarSnapshot struct {
	Open bool `json:"open"`
}

func authSnapshotOf(sess authstate.Session) *authSnapshot {
	return &authSnapshot{
		AuthType:            string(sess.Type),
		Username:            sess.Username,
		AuthorizationHeader: redactHeader(sess.Header),
	}
}

// redactHeader keeps the scheme prefix and hides the credential part,
// so snapshots never leak tokens or encoded passwords.
func redactHeader(header string) string {
	if header == "" {
		return ""
	}
	scheme, _, found := strings.Cut(header, " ")
	if !found {
		return "[redacted]"
	}
	return scheme + " [redacted]"
}

func (i *Inspector) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (i *Inspector) handleState(w http.ResponseWriter, r *http.Request) {
	i.mu.RLock()
	auth := i.auth
	sidebar := i.sidebar
	i.mu.RUnlock()

	snap := snapshot{Name: i.name}
	if auth != nil {
		snap.Auth = authSnapshotOf(auth.Session())
	}
	if sidebar != nil {
		snap.Sidebar = &sidebarSnapshot{Open: sidebar.Open()}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		i.logger.Debug("state snapshot encode failed", "error", err)
	}
}
