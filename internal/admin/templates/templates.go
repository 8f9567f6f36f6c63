package templates

import (
	"embed"
	"encoding/json"
	"html/template"
	"time"
)

//go:embed *.html
var FS embed.FS

// Parse returns the parsed templates with custom functions
func Parse() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatPricing": formatPricing,
		"formatTime":    formatTime,
	}

	return template.New("").Funcs(funcMap).ParseFS(FS, "*.html")
}

func formatPricing(pricing map[string]int) string {
	if len(pricing) == 0 {
		return "{}"
	}
	b, err := json.Marshal(pricing)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
