package app

import (
	"fmt"
	"math"
	"strconv"

	"flightwatch_web/internal/domain"
)

type State struct {
	Loading    bool
	FetchError string
	FormError  string
	Watches    []domain.Watch
	Form       domain.WatchForm
}

// View is what the templates consume. Exactly one of Loading, FetchError,
// Empty or Rows drives the list section.
type View struct {
	Loading    bool
	FetchError string
	FormError  string
	Empty      bool
	Rows       []Row
	Form       domain.WatchForm
	Cabins     []string
}

type Row struct {
	ID            int64
	Origin        string
	Destination   string
	DepartureDate string
	Pax           int
	Cabin         string
	Threshold     string // empty: no threshold line
	Badge         *Badge
}

type Tone string

const (
	ToneWarning  Tone = "warning"
	TonePositive Tone = "positive"
)

type Badge struct {
	Text   string
	Tone   Tone
	Median string
}

func BuildView(s State) View {
	v := View{
		Loading:   s.Loading,
		FormError: s.FormError,
		Form:      s.Form,
		Cabins:    domain.Cabins,
	}
	switch {
	case s.Loading:
	case s.FetchError != "":
		v.FetchError = s.FetchError
	case len(s.Watches) == 0:
		v.Empty = true
	default:
		v.Rows = make([]Row, 0, len(s.Watches))
		for _, w := range s.Watches {
			v.Rows = append(v.Rows, buildRow(w))
		}
	}
	return v
}

func buildRow(w domain.Watch) Row {
	r := Row{
		ID:            w.ID,
		Origin:        w.Origin,
		Destination:   w.Destination,
		DepartureDate: w.DepartureDate,
		Pax:           w.Pax,
		Cabin:         w.Cabin,
	}
	if w.ConfirmPrice != nil && *w.ConfirmPrice != 0 {
		r.Threshold = fmt.Sprintf("Alert at or below %s %s", formatPrice(*w.ConfirmPrice), currencyOr(w.Currency))
	}
	if w.Typical != nil {
		b := TypicalBadge(*w.Typical)
		if w.Currency != "" {
			b.Median += " " + w.Currency
		}
		r.Badge = &b
	}
	return r
}

// TypicalBadge renders the comparison. Tone and sign follow the sign of the
// delta only: above typical is a warning, at or below is positive.
func TypicalBadge(c domain.TypicalPriceComparison) Badge {
	pct := int(math.Round(c.DeltaPercent * 100))
	b := Badge{Median: formatPrice(c.Median)}
	if c.DeltaPercent > 0 {
		b.Text = fmt.Sprintf("+%d%% vs typical", pct)
		b.Tone = ToneWarning
	} else {
		b.Text = fmt.Sprintf("%d%% vs typical", pct)
		b.Tone = TonePositive
	}
	return b
}

func formatPrice(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func currencyOr(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}
