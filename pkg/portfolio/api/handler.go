package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// maxBodyBytes bounds request bodies; inline images arrive base64 encoded.
const maxBodyBytes = 32 << 20

// EntryView is an entry as the editor displays it, tags joined by commas.
type EntryView struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Summary  string            `json:"summary"`
	Body     string            `json:"body"`
	Tags     string            `json:"tags"`
	Category string            `json:"category"`
	Link     string            `json:"link"`
	Image    string            `json:"image"`
	ImageAlt string            `json:"imageAlt"`
	Blocks   []portfolio.Block `json:"blocks,omitempty"`
}

func newEntryView(e portfolio.Entry) EntryView {
	return EntryView{
		ID:       e.ID,
		Title:    e.Title,
		Summary:  e.Summary,
		Body:     e.Body,
		Tags:     portfolio.JoinTags(e.Tags),
		Category: e.Category,
		Link:     e.Link,
		Image:    e.Image,
		ImageAlt: e.ImageAlt,
	}
}

// ListResponse is the body of GET /api/list
type ListResponse struct {
	OK    bool           `json:"ok"`
	Kind  portfolio.Kind `json:"kind"`
	File  string         `json:"file"`
	Items []EntryView    `json:"items"`
}

// EntryResponse is the body of GET /api/entries/{kind}/{id}
type EntryResponse struct {
	OK   bool           `json:"ok"`
	Kind portfolio.Kind `json:"kind"`
	Item EntryView      `json:"item"`
}

// SaveResponse is the body of POST /api/save
type SaveResponse struct {
	OK bool `json:"ok"`
	*portfolio.SaveEntryResult
}

// DeleteResponse is the body of POST /api/delete
type DeleteResponse struct {
	OK bool `json:"ok"`
	*portfolio.DeleteEntryResult
}

// DeployResponse is the body of POST /api/deploy
type DeployResponse struct {
	OK bool `json:"ok"`
	*portfolio.PublishResult
}

// PreviewResponse is the body of POST /api/preview
type PreviewResponse struct {
	OK bool `json:"ok"`
	*portfolio.PreviewResult
}

// Server exposes the portfolio service over HTTP
type Server struct {
	service     portfolio.Service
	staticRoot  string
	corsOrigins []string
	timeout     time.Duration
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithStaticRoot serves site files from dir for paths outside /api
func WithStaticRoot(dir string) ServerOption {
	return func(s *Server) {
		s.staticRoot = dir
	}
}

// WithCORS allows cross-origin requests from origins. CORS is off when none are given.
func WithCORS(origins ...string) ServerOption {
	return func(s *Server) {
		s.corsOrigins = append(s.corsOrigins, origins...)
	}
}

// WithTimeout bounds each request; git commands are cancelled when it expires
func WithTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.timeout = d
	}
}

// NewServer creates a new HTTP server wrapper
func NewServer(service portfolio.Service, opts ...ServerOption) *Server {
	s := &Server{
		service: service,
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(nil))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}
	if len(s.corsOrigins) > 0 {
		r.Use(CORSMiddleware(s.corsOrigins))
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/list", s.handleList)
		r.Get("/entries/{kind}/{id}", s.handleGetEntry)
		r.Post("/save", s.handleSave)
		r.Post("/delete", s.handleDelete)
		r.Post("/deploy", s.handleDeploy)
		r.Post("/preview", s.handlePreview)
	})

	if s.staticRoot != "" {
		r.Handle("/*", StaticHandler(s.staticRoot))
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"ok":     true,
		"status": "healthy",
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, err := portfolio.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, r, "list", err)
		return
	}

	entries, err := s.service.List(r.Context(), kind)
	if err != nil {
		writeError(w, r, "list", err)
		return
	}

	items := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		items = append(items, newEntryView(e))
	}
	render.JSON(w, r, ListResponse{OK: true, Kind: kind, File: s.service.CollectionPath(kind), Items: items})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	kind, err := portfolio.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, "get", err)
		return
	}

	entry, err := s.service.Get(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "get", err)
		return
	}

	view := newEntryView(*entry)
	view.Blocks = portfolio.Decompose(entry.Body)
	render.JSON(w, r, EntryResponse{OK: true, Kind: kind, Item: view})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req portfolio.SaveEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, "save", err)
		return
	}

	result, err := s.service.Save(r.Context(), req)
	if err != nil {
		writeError(w, r, "save", err)
		return
	}
	render.JSON(w, r, SaveResponse{OK: true, SaveEntryResult: result})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req portfolio.DeleteEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, "delete", err)
		return
	}

	result, err := s.service.Delete(r.Context(), req)
	if err != nil {
		writeError(w, r, "delete", err)
		return
	}
	render.JSON(w, r, DeleteResponse{OK: true, DeleteEntryResult: result})
}

func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	var req portfolio.PublishRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, "deploy", err)
		return
	}

	result, err := s.service.Publish(r.Context(), req)
	if err != nil {
		writeError(w, r, "deploy", err)
		return
	}
	render.JSON(w, r, DeployResponse{OK: true, PublishResult: result})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req portfolio.PreviewRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, "preview", err)
		return
	}

	result, err := s.service.Preview(r.Context(), req)
	if err != nil {
		writeError(w, r, "preview", err)
		return
	}
	render.JSON(w, r, PreviewResponse{OK: true, PreviewResult: result})
}

// decodeBody reads a JSON body into v. An empty body leaves v at its zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := render.DecodeJSON(body, v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// StaticHandler serves the site's files from root. Dot files and
// directories, including .git, are never served.
func StaticHandler(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, segment := range strings.Split(path.Clean("/"+r.URL.Path), "/") {
			if strings.HasPrefix(segment, ".") {
				http.NotFound(w, r)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}
