package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/vitolink/regconsole/cmd/regconsole-web/api"
	"github.com/vitolink/regconsole/pkg/editor"
	"github.com/vitolink/regconsole/pkg/log"
	"github.com/vitolink/regconsole/pkg/regapi"
	"github.com/vitolink/regconsole/pkg/register"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed templates/*.html
var templateFiles embed.FS

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port    int
	DBPath  string
	Version string

	// APIURL is the register API base URL, shown on the page.
	APIURL string

	// API is the register API used by every session.
	API regapi.API

	// Catalog lists the registers offered for selection.
	Catalog register.Catalog

	// Logger receives editor state changes. Nil disables logging.
	Logger log.Logger

	// Backend, when set, is served under /api/ next to the console.
	Backend http.Handler
}

// Server is the HTTP server of the web console.
type Server struct {
	config     ServerConfig
	mux        *http.ServeMux
	server     *http.Server
	store      *api.Store
	historyAPI *api.HistoryAPI
	sessions   *sessionRegistry
	page       *template.Template
}

// NewServer creates a new server with the given configuration.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("register API is required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = register.DefaultCatalog()
	}

	page, err := template.ParseFS(templateFiles, "templates/debug.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Initialize SQLite store
	store, err := api.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	s := &Server{
		config:     cfg,
		mux:        http.NewServeMux(),
		store:      store,
		historyAPI: api.NewHistoryAPI(store),
		page:       page,
	}
	s.sessions = newSessionRegistry(cfg.Logger, cfg.APIURL, func(l log.Logger) *editor.Editor {
		return editor.New(cfg.API, cfg.Catalog, editor.WithLogger(l))
	})

	s.registerRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.mux,
	}

	return s, nil
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	// Console
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/debug", s.handleDebug)
	s.mux.HandleFunc("/debug/select", s.handleSelect)

	staticFS, _ := fs.Sub(staticFiles, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// API routes
	s.mux.HandleFunc("/api/v1/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/info", s.handleInfo)
	s.mux.HandleFunc("/api/v1/catalog", s.handleCatalog)
	s.mux.HandleFunc("/api/v1/editor", s.handleEditor)
	s.mux.HandleFunc("/api/v1/history", s.historyAPI.HandleList)

	// Backend discovery
	s.mux.HandleFunc("/api/v1/backends", api.HandleBackends)

	if s.config.Backend != nil {
		s.mux.Handle("/api/", s.config.Backend)
	}
}

// handleRoot redirects to the console.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/debug", http.StatusFound)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	version := s.config.Version
	if version == "" {
		version = "dev"
	}

	resp := map[string]string{
		"status":  "ok",
		"version": version,
	}

	writeJSON(w, http.StatusOK, resp)
}

// infoResponse is the response for GET /api/v1/info.
type infoResponse struct {
	APIURL       string `json:"api_url"`
	CatalogSize  int    `json:"catalog_size"`
	SessionCount int    `json:"session_count"`
	HistoryCount int    `json:"history_count"`
}

// handleInfo returns server information.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	historyCount, _ := s.store.CountEntries()

	writeJSON(w, http.StatusOK, infoResponse{
		APIURL:       s.config.APIURL,
		CatalogSize:  len(s.config.Catalog),
		SessionCount: s.sessions.count(),
		HistoryCount: historyCount,
	})
}

// handleCatalog returns the register catalog.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.config.Catalog)
}

// handleEditor returns the editor state of the calling session.
func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.sessions.get(w, r)
	writeJSON(w, http.StatusOK, sess.editor.Snapshot())
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Close closes the store.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
