package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/http/response"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"indicatorLabel": func(s domain.StatusIndicator) string {
		switch s {
		case domain.StatusIndicatorMinor:
			return "Minor service disruption"
		case domain.StatusIndicatorMajor:
			return "Partial system outage"
		case domain.StatusIndicatorCritical:
			return "Major system outage"
		case domain.StatusIndicatorMaintenance:
			return "Service under maintenance"
		default:
			return "All systems operational"
		}
	},
	"componentLabel": func(s domain.ComponentStatus) string {
		return strings.ReplaceAll(string(s), "_", " ")
	},
}

// Views holds one parsed template set per page.
type Views struct {
	pages map[string]*template.Template
}

func NewViews() (*Views, error) {
	names := []string{"landing", "login", "dashboard", "status"}
	v := &Views{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		tmpl, err := template.New(name+".html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = tmpl
	}
	return v, nil
}

// Render executes into a buffer first so a template failure never leaves a
// half written page behind.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := v.pages[name]
	if !ok {
		slog.ErrorContext(r.Context(), "unknown template", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.ErrorContext(r.Context(), "render template failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	response.HTML(w, status, buf.Bytes())
}
