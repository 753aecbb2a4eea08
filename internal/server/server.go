// Package server implements the relmap web UI.
//
// The server accepts CSV uploads, runs them through the shared pipeline,
// and serves the rendered interactive graph. Uploads are held in memory
// and addressed by generated IDs; nothing is persisted across restarts.
package server

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/relmap/pkg/builder"
	"github.com/matzehuels/relmap/pkg/pipeline"
)

// maxUploadBytes bounds the accepted CSV size.
const maxUploadBytes = 10 << 20 // 10 MiB

// Server handles HTTP requests for the relmap web UI.
type Server struct {
	runner *pipeline.Runner
	store  *store
	logger *log.Logger
	router chi.Router
}

// New creates a server around the given pipeline runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  newStore(),
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Post("/graphs", s.handleUpload)
	r.Get("/graphs/{id}", s.handleGraph)
	r.Get("/graphs/{id}.json", s.handleGraphJSON)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// logRequests logs one line per request with the structured logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

// handleUpload accepts a multipart form with the CSV file and optional
// group selections, runs the pipeline, and redirects to the stored graph.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("csv")
	if err != nil {
		http.Error(w, "missing csv file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts := pipeline.Options{
		Data:    data,
		Groups:  cleanGroups(r.Form["groups"]),
		Title:   strings.TrimSpace(r.FormValue("title")),
		Formats: []string{pipeline.FormatHTML, pipeline.FormatJSON},
		Logger:  s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		var schemaErr *builder.SchemaError
		if errors.As(err, &schemaErr) {
			http.Error(w, schemaErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.logger.Error("pipeline failed", "err", err)
		http.Error(w, "processing failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	s.store.put(id, &entry{
		HTML:      result.Artifacts[pipeline.FormatHTML],
		JSON:      result.Artifacts[pipeline.FormatJSON],
		GraphHash: result.GraphHash,
		CreatedAt: time.Now(),
	})

	s.logger.Info("stored graph",
		"id", id,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount)

	http.Redirect(w, r, "/graphs/"+id, http.StatusSeeOther)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(e.HTML)
}

func (s *Server) handleGraphJSON(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", `"`+e.GraphHash+`"`)
	_, _ = w.Write(e.JSON)
}

// cleanGroups flattens repeated and comma-separated form values into a
// list of column names.
func cleanGroups(values []string) []string {
	var groups []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				groups = append(groups, name)
			}
		}
	}
	return groups
}

// indexTemplate is the upload form.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>relmap</title>
<style>
  body { font-family: sans-serif; max-width: 40rem; margin: 4rem auto; color: #ddd; background: #222; }
  input, button { font-size: 1rem; margin: 0.5rem 0; }
  .hint { color: #888; font-size: 0.9rem; }
</style>
</head>
<body>
<h1>relmap</h1>
<p>Upload an interface table (CSV) to explore its relationship graph.</p>
<form action="/graphs" method="post" enctype="multipart/form-data">
  <div><input type="file" name="csv" accept=".csv" required></div>
  <div><input type="text" name="title" placeholder="Graph title (optional)"></div>
  <div><input type="text" name="groups" placeholder="Grouping columns, e.g. Critical"></div>
  <div class="hint">Required columns: ID, Interface, System, Sub-Topics</div>
  <button type="submit">Build graph</button>
</form>
</body>
</html>
`))
