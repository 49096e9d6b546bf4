// Package ui serves the HTML questionnaire and result pages.
package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"movilidad/app"
	"movilidad/domain/dataset"
	domainQuestionnaire "movilidad/domain/questionnaire"
	"movilidad/internal"
)

// Config holds UI server settings
type Config struct {
	Neighbors int
	GinMode   string
}

// Server represents the web server for the mobility UI
type Server struct {
	router    *gin.Engine
	templates *template.Template
	match     *app.MatchService
	class     *app.ClassService
	config    Config
	log       *internal.Logger
}

// NewServer parses the templates under ui/templates of files and mounts
// the page routes. api, when set, serves every /api path.
func NewServer(files fs.FS, match *app.MatchService, class *app.ClassService, api http.Handler, config Config, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}

	templatesFS, err := fs.Sub(files, "ui/templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	templates, err := template.New("").Funcs(funcMap()).ParseFS(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		templates: templates,
		match:     match,
		class:     class,
		config:    config,
		log:       logger.With("UI"),
	}
	s.router.Use(gin.Logger(), gin.Recovery())

	if staticFS, err := fs.Sub(files, "ui/static"); err == nil {
		s.router.StaticFS("/static", http.FS(staticFS))
	}
	s.setupRoutes(api)
	return s, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"pct":      func(p float64) string { return fmt.Sprintf("%.2f%%", p*100) },
		"width":    func(p float64) string { return fmt.Sprintf("%.0f", p*100) },
		"add":      func(a, b int) int { return a + b },
		"markdown": renderMarkdown,
		"join":     strings.Join,
		"code":     dataset.FormatFloat,
		"answer":   answerFor,
	}
}

// answerFor is the value a question shows: the submitted one, else its default
func answerFor(selected map[string]string, q domainQuestionnaire.Question) string {
	if v, ok := selected[q.Variable]; ok {
		return v
	}
	return dataset.FormatFloat(q.Default)
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes(api http.Handler) {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/ejecutar", s.handleRun)
	s.router.POST("/explicar", s.handleExplain)
	s.router.GET("/clase", s.handleClassForm)
	s.router.POST("/clase", s.handleClassPredict)

	if api != nil {
		s.router.Any("/api/*path", gin.WrapH(api))
	}
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.log.Info("listening on http://%s", addr)
	return s.router.Run(addr)
}

// renderTemplate executes name into a buffer and writes it with status.
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template %s: %v", name, err)
		c.String(http.StatusInternalServerError, "Template error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
