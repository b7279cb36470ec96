package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"flightwatch_web/internal/app"
)

//go:embed templates/*.html
var templateFS embed.FS

type Views struct{ t *template.Template }

func NewViews() (*Views, error) {
	t, err := template.New("watches").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Views{t: t}, nil
}

// render executes name into a buffer first so a template failure becomes a
// clean 500 instead of a half-written page.
func (v *Views) render(w http.ResponseWriter, status int, name string, view app.View) {
	var buf bytes.Buffer
	if err := v.t.ExecuteTemplate(&buf, name, view); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("template", name).Msg("write body failed")
	}
}
