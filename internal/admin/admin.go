// Package admin serves the operator HTML panel: clinic pricing management
// and the analyses audit trail.
package admin

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prohair-dev/trichoscan/internal/admin/templates"
	"github.com/prohair-dev/trichoscan/internal/store"
)

// Panel holds the parsed templates and the store the views read from.
type Panel struct {
	store store.Store
	tmpl  *template.Template
}

// NewPanel parses the embedded templates and returns the panel.
func NewPanel(st store.Store) (*Panel, error) {
	tmpl, err := templates.Parse()
	if err != nil {
		return nil, err
	}
	return &Panel{store: st, tmpl: tmpl}, nil
}

// Routes returns the panel's router, expected to be mounted under /admin
// behind basic auth.
func (p *Panel) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", p.dashboard)
	r.Get("/edit/{apiKey}", p.editForm)
	r.Post("/edit/{apiKey}", p.update)
	r.Get("/analyses", p.analyses)
	return r
}

func (p *Panel) dashboard(w http.ResponseWriter, r *http.Request) {
	clinics, err := p.store.ListClinics(r.Context())
	if err != nil {
		p.renderError(w, "Failed to load clinics", err)
		return
	}
	p.render(w, "dashboard.html", map[string]any{"Clinics": clinics})
}

func (p *Panel) editForm(w http.ResponseWriter, r *http.Request) {
	apiKey := chi.URLParam(r, "apiKey")

	clinic, err := p.store.GetClinic(r.Context(), apiKey)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Clinic not found", http.StatusNotFound)
		return
	}
	if err != nil {
		p.renderError(w, "Failed to load clinic", err)
		return
	}

	pricingJSON, _ := json.MarshalIndent(clinic.Pricing, "", "  ")
	p.render(w, "edit_clinic.html", map[string]any{
		"Clinic":      clinic,
		"PricingJSON": string(pricingJSON),
	})
}

func (p *Panel) update(w http.ResponseWriter, r *http.Request) {
	apiKey := chi.URLParam(r, "apiKey")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	var email *string
	if v := strings.TrimSpace(r.FormValue("email_clinique")); v != "" {
		email = &v
	}

	pricing := map[string]int{}
	if raw := strings.TrimSpace(r.FormValue("pricing_json")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &pricing); err != nil {
			http.Error(w, "The pricing field must be valid JSON mapping stages to integer prices", http.StatusBadRequest)
			return
		}
	}

	if err := p.store.UpsertClinic(r.Context(), apiKey, email, pricing); err != nil {
		p.renderError(w, "Failed to update clinic", err)
		return
	}

	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

func (p *Panel) analyses(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	analyses, total, err := p.store.ListAnalyses(r.Context(), store.AnalysisFilter{
		ClinicAPIKey: r.URL.Query().Get("clinic"),
		Page:         page,
		Limit:        50,
	})
	if err != nil {
		p.renderError(w, "Failed to load analyses", err)
		return
	}

	p.render(w, "analyses.html", map[string]any{
		"Analyses": analyses,
		"Total":    total,
	})
}

func (p *Panel) render(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render admin template", "template", name, "error", err)
	}
}

func (p *Panel) renderError(w http.ResponseWriter, msg string, err error) {
	slog.Error("admin panel error", "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}
