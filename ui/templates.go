package ui

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/n0rdy/widaconsole/stats"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{
	"dashboard.html",
	"queues.html",
	"jobs.html",
	"job.html",
	"workers.html",
	"scheduler.html",
	"dlq.html",
	"enqueue.html",
}

var templates map[string]*template.Template

func init() {
	// Create template with helper functions
	funcMap := template.FuncMap{
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"iso":      stats.FormatIsoMillis,
		"datetime": formatDatetime,
	}

	templates = make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			log.Fatal().Err(err).Str("template", page).Msg("Failed to parse templates")
			panic(err)
		}
		templates[page] = tmpl
	}
}

// formatDatetime accepts both time.Time and *time.Time, so optional timestamps can be rendered as is
func formatDatetime(value interface{}) string {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v != nil {
			t = *v
		}
	}
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// RenderTemplate renders a page within the layout with the given data
func RenderTemplate(w http.ResponseWriter, httpCode int, templateName string, data interface{}) {
	tmpl, ok := templates[templateName]
	if !ok {
		log.Error().Str("template", templateName).Msg("Unknown template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(httpCode)
	err := tmpl.ExecuteTemplate(w, "layout", data)
	if err != nil {
		log.Error().Err(err).Str("template", templateName).Msg("Failed to render template")
		return
	}
}
