package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"flightwatch_web/internal/domain"
)

// User-facing messages. These are the only strings the two error channels
// ever carry besides a backend-supplied detail.
const (
	MsgFetchFailed  = "Failed to fetch watches"
	MsgCreateFailed = "Failed to create watch"
	MsgRequired     = "Origin, destination and departure date are required."
	MsgThrottled    = "Too many submissions. Please wait a moment and try again."
)

type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeRejected Outcome = "rejected"
)

// WatchPage is the state of one rendering of the watches page: the list, the
// add-watch form and the two error channels. Fetch and form errors are
// independent; each is cleared only by a later success of its own kind.
type WatchPage struct {
	api domain.WatchAPI

	mu       sync.Mutex
	watches  []domain.Watch
	loading  bool
	loaded   bool
	fetchErr string
	formErr  string
	form     domain.WatchForm
}

func NewWatchPage(api domain.WatchAPI) *WatchPage {
	return &WatchPage{api: api, loading: true, form: domain.DefaultWatchForm()}
}

// Load replaces the list with the backend's collection, or records the
// generic fetch error and keeps whatever list was there.
func (p *WatchPage) Load(ctx context.Context) {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	ws, err := p.api.ListWatches(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	p.loaded = true
	if err != nil {
		log.Warn().Err(err).Msg("list watches failed")
		p.fetchErr = MsgFetchFailed
		return
	}
	if ws == nil {
		ws = []domain.Watch{}
	}
	p.watches = ws
	p.fetchErr = ""
}

// Loaded reports whether at least one Load has finished.
func (p *WatchPage) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// SetField updates one form field by its input name.
func (p *WatchPage) SetField(name, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch name {
	case "origin":
		p.form.Origin = value
	case "destination":
		p.form.Destination = value
	case "departure_date":
		p.form.DepartureDate = value
	case "pax":
		p.form.Pax = value
	case "cabin":
		p.form.Cabin = value
	case "confirm_price":
		p.form.ConfirmPrice = value
	default:
		return domain.ErrUnknownField
	}
	return nil
}

// SetFormError puts msg on the form channel without touching the fields.
func (p *WatchPage) SetFormError(msg string) {
	p.mu.Lock()
	p.formErr = msg
	p.mu.Unlock()
}

// Submit validates the form and creates the watch. On success the form is
// reset and the list reloaded; on failure the fields are left as typed.
func (p *WatchPage) Submit(ctx context.Context) Outcome {
	p.mu.Lock()
	form := p.form
	p.mu.Unlock()

	nw, err := ParseForm(form)
	if err != nil {
		p.SetFormError(MsgRequired)
		return OutcomeInvalid
	}

	if err := p.api.CreateWatch(ctx, nw); err != nil {
		msg := MsgCreateFailed
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			msg = apiErr.Detail
		}
		log.Warn().Err(err).Str("origin", nw.Origin).Str("destination", nw.Destination).Msg("create watch failed")
		p.SetFormError(msg)
		return OutcomeRejected
	}

	p.mu.Lock()
	p.form = domain.DefaultWatchForm()
	p.formErr = ""
	p.mu.Unlock()

	p.Load(ctx)
	return OutcomeCreated
}

// State is a point-in-time copy of the page.
func (p *WatchPage) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	ws := make([]domain.Watch, len(p.watches))
	copy(ws, p.watches)
	return State{
		Loading:    p.loading,
		FetchError: p.fetchErr,
		FormError:  p.formErr,
		Watches:    ws,
		Form:       p.form,
	}
}

func (p *WatchPage) View() View { return BuildView(p.State()) }
