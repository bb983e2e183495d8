// Package web serves the browser chat UI. Every browser session owns its
// own chat.Controller; updates reach the page over a websocket.
package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/render"
)

// Config holds server configuration.
type Config struct {
	Port       int
	AllowAll   bool // allow all CORS origins (dev mode)
	SessionTTL time.Duration

	// PingInterval is how often open websockets are pinged to keep their
	// session alive. Zero means 30s.
	PingInterval time.Duration
}

// Server is the web chat UI.
type Server struct {
	cfg        Config
	backend    chat.Backend
	log        *zap.Logger
	views      *views
	sessions   *sessionStore
	router     chi.Router
	httpServer *http.Server

	// tasks outlive the request that started them. ctx is cancelled on
	// Shutdown.
	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

// New creates a server whose sessions talk to b.
func New(cfg Config, b chat.Backend, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("web")

	v, err := newViews(render.NewMarkdown())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		backend: b,
		log:     log,
		views:   v,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.sessions = newSessionStore(cfg.SessionTTL, s.newSession)
	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.handleIndex)
	r.Get("/api/session", s.handleSession)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/ui", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Post("/ask", s.handleAsk)
		r.Post("/documents/toggle", s.handleToggle)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, cancels in-flight uploads and
// questions, and waits for them to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.tasks.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}

	s.sessions.close()
	return err
}

// spawn runs fn as an independent task that is not tied to the request
// that started it.
func (s *Server) spawn(fn func(ctx context.Context)) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		fn(s.ctx)
	}()
}

func (s *Server) newSession(id string) *session {
	h := newHub(s.views, s.log.With(zap.String("session", id)), s.cfg.PingInterval)
	return &session{
		id:   id,
		hub:  h,
		ctrl: chat.NewController(s.backend, h, s.log.With(zap.String("session", id))),
	}
}
