// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"flightwatch_web/internal/adapters/observability"
	"flightwatch_web/internal/app"
	"flightwatch_web/internal/domain"
)

// formFields are the add-watch inputs, by HTML name.
var formFields = []string{"origin", "destination", "departure_date", "pax", "cabin", "confirm_price"}

type Handlers struct {
	API     domain.WatchAPI
	Limiter domain.SubmitLimiter // nil: no throttle
	Views   *Views
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.page)
	s.mux.Post("/", h.submit)
	s.mux.Get("/partials/watches", h.list)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// page serves the shell with the list still loading; the browser then pulls
// /partials/watches.
func (h *Handlers) page(w http.ResponseWriter, r *http.Request) {
	p := app.NewWatchPage(h.API)
	h.Views.render(w, http.StatusOK, "page", p.View())
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	p := app.NewWatchPage(h.API)
	p.Load(r.Context())
	h.Views.render(w, http.StatusOK, "list", p.View())
}

func (h *Handlers) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", "form body could not be parsed")
		return
	}
	p := app.NewWatchPage(h.API)
	for _, name := range formFields {
		if vs, ok := r.PostForm[name]; ok && len(vs) > 0 {
			if err := p.SetField(name, vs[0]); err != nil {
				log.Debug().Err(err).Str("field", name).Msg("form field ignored")
			}
		}
	}

	if h.allowSubmit(r) {
		out := p.Submit(r.Context())
		observability.ObserveForm(string(out))
	} else {
		p.SetFormError(app.MsgThrottled)
		observability.ObserveForm("throttled")
	}

	// a successful submit has already reloaded the list
	if !p.Loaded() {
		p.Load(r.Context())
	}

	view := p.View()
	status := http.StatusOK
	if view.FormError != "" {
		status = http.StatusUnprocessableEntity
	}
	h.Views.render(w, status, "page", view)
}

// allowSubmit consults the throttle. Redis trouble lets the submit through.
func (h *Handlers) allowSubmit(r *http.Request) bool {
	if h.Limiter == nil {
		return true
	}
	ip := remoteIP(r)
	d, err := h.Limiter.Allow(r.Context(), ip)
	if err != nil {
		log.Warn().Err(err).Msg("submit throttle unavailable")
		return true
	}
	if !d.Allowed {
		log.Info().Str("remote", ip).Dur("reset_in", d.ResetIn).Msg("submit throttled")
	}
	return d.Allowed
}
