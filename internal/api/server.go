// Package api serves the generated report and the fetched bug
// documents over HTTP, rendered to HTML.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"

	"github.com/horacewang893101/fetch-jira-bug/internal/parser"
	"github.com/horacewang893101/fetch-jira-bug/internal/source"
)

// Server exposes the report artifact and bug documents.
type Server struct {
	router     chi.Router
	bugsDir    string
	reportPath string
	parserOpts parser.Options
	log        *slog.Logger
}

// NewServer creates and configures the HTTP server. apiKey may be
// empty, in which case all endpoints are public.
func NewServer(bugsDir, reportPath, apiKey string, parserOpts parser.Options, log *slog.Logger) *Server {
	s := &Server{
		bugsDir:    bugsDir,
		reportPath: reportPath,
		parserOpts: parserOpts,
		log:        log,
	}
	s.setupRoutes(apiKey)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes(apiKey string) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if apiKey != "" {
			r.Use(AuthMiddleware(apiKey, s.log))
		}
		r.Get("/report", s.handleReport)
		r.Get("/bugs", s.handleListBugs)
		r.Get("/bugs/{bugID}", s.handleBug)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReport renders the analysis report as HTML.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.reportPath)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "report not generated yet", http.StatusNotFound)
			return
		}
		s.log.Error("read report", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeMarkdown(w, "Bug Analysis Report", data)
}

// handleListBugs lists the discovered bug documents as JSON.
func (s *Server) handleListBugs(w http.ResponseWriter, r *http.Request) {
	docs, err := source.List(s.bugsDir)
	if err != nil {
		s.log.Error("list bugs", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	type item struct {
		ID   string `json:"id"`
		File string `json:"file"`
	}
	items := make([]item, 0, len(docs))
	for _, d := range docs {
		items = append(items, item{ID: d.ID, File: filepath.Base(d.Path)})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"bugs": items})
}

// handleBug renders a single bug document. Markdown documents are
// converted to HTML; other formats are shown as extracted plain text.
func (s *Server) handleBug(w http.ResponseWriter, r *http.Request) {
	bugID := chi.URLParam(r, "bugID")

	docs, err := source.List(s.bugsDir)
	if err != nil {
		s.log.Error("list bugs", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	for _, d := range docs {
		if d.ID != bugID {
			continue
		}
		ext := strings.ToLower(filepath.Ext(d.Path))
		if ext == ".md" || ext == ".markdown" {
			data, err := os.ReadFile(d.Path)
			if err != nil {
				s.log.Error("read bug", "bug_id", bugID, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			s.writeMarkdown(w, bugID, data)
			return
		}
		text, err := parser.ExtractText(d.Path, s.parserOpts)
		if err != nil {
			s.log.Error("extract bug text", "bug_id", bugID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s.writePage(w, bugID, "<pre>"+html.EscapeString(text)+"</pre>")
		return
	}
	http.Error(w, "bug not found", http.StatusNotFound)
}

func (s *Server) writeMarkdown(w http.ResponseWriter, title string, md []byte) {
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		s.log.Error("render markdown", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writePage(w, title, buf.String())
}

func (s *Server) writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
%s
</body>
</html>
`, html.EscapeString(title), body)
}
