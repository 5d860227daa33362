package application

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/savi-chat/internal/config"
)

// SessionIssuer hands out the caller's chat session id.
type SessionIssuer interface {
	EnsureID(w http.ResponseWriter, r *http.Request) (string, error)
}

// Pages renders the HTML entry points of the wrapper.
type Pages struct {
	templates    *template.Template
	sessions     SessionIssuer
	logger       *zap.Logger
	site         siteView
	staticMaxAge time.Duration
}

// siteView is the subset of configuration exposed to templates. It never
// carries secrets.
type siteView struct {
	AppName     string
	AppVersion  string
	Environment string
	Debug       bool
	ProjectID   string
	ProjectKey  string
	EmbedURL    string
}

type pageData struct {
	siteView
	SessionID string
}

// NewPages parses the templates under web/templates.
func NewPages(cfg config.Config, sessions SessionIssuer, logger *zap.Logger) (*Pages, error) {
	dir, err := resolveProjectPath(filepath.Join("web", "templates"))
	if err != nil {
		return nil, err
	}

	tmpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Pages{
		templates: tmpl,
		sessions:  sessions,
		logger:    logger,
		site: siteView{
			AppName:     cfg.AppName,
			AppVersion:  cfg.AppVersion,
			Environment: cfg.Name,
			Debug:       cfg.Debug,
			ProjectID:   cfg.CustomGPT.ProjectID,
			ProjectKey:  cfg.CustomGPT.ProjectKey,
			EmbedURL:    cfg.CustomGPT.EmbedURL,
		},
		staticMaxAge: cfg.StaticMaxAge,
	}, nil
}

func (p *Pages) handleIndex(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, "index.html", pageData{siteView: p.site})
}

func (p *Pages) handleChat(w http.ResponseWriter, r *http.Request) {
	id, err := p.sessions.EnsureID(w, r)
	if err != nil {
		p.logger.Error("failed to issue chat session", zap.Error(err))
		http.Error(w, "unable to start chat session", http.StatusInternalServerError)
		return
	}
	p.render(w, r, "chat.html", pageData{siteView: p.site, SessionID: id})
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("failed to render page", zap.String("template", name), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "unable to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (p *Pages) cacheStatic(next http.Handler) http.Handler {
	if p.staticMaxAge <= 0 {
		return next
	}
	value := "public, max-age=" + strconv.Itoa(int(p.staticMaxAge/time.Second))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}
