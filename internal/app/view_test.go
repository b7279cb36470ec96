package app_test

import (
	"errors"
	"testing"

	"flightwatch_web/internal/app"
	"flightwatch_web/internal/domain"
)

func TestTypicalBadge(t *testing.T) {
	cases := []struct {
		delta float64
		text  string
		tone  app.Tone
	}{
		{0.125, "+13% vs typical", app.ToneWarning},
		{0.001, "+0% vs typical", app.ToneWarning},
		{0, "0% vs typical", app.TonePositive},
		{-0.2, "-20% vs typical", app.TonePositive},
		{-0.004, "0% vs typical", app.TonePositive},
	}
	for _, tc := range cases {
		b := app.TypicalBadge(domain.TypicalPriceComparison{Median: 410.5, DeltaPercent: tc.delta})
		if b.Text != tc.text || b.Tone != tc.tone {
			t.Fatalf("delta %v: got %q/%s, want %q/%s", tc.delta, b.Text, b.Tone, tc.text, tc.tone)
		}
		if b.Median != "410.50" {
			t.Fatalf("unexpected median %q", b.Median)
		}
	}
}

func TestBuildView_Precedence(t *testing.T) {
	ws := []domain.Watch{{ID: 1}}

	v := app.BuildView(app.State{Loading: true, FetchError: "x", Watches: ws})
	if !v.Loading || v.FetchError != "" || v.Rows != nil || v.Empty {
		t.Fatalf("loading must hide everything else: %+v", v)
	}

	v = app.BuildView(app.State{FetchError: "boom", Watches: ws})
	if v.FetchError != "boom" || v.Rows != nil || v.Empty {
		t.Fatalf("error replaces the list: %+v", v)
	}

	v = app.BuildView(app.State{})
	if !v.Empty {
		t.Fatalf("expected empty state: %+v", v)
	}
}

func TestBuildView_BadgeOnlyWithComparison(t *testing.T) {
	v := app.BuildView(app.State{Watches: []domain.Watch{
		{ID: 1, Currency: "EUR", Typical: &domain.TypicalPriceComparison{Median: 200, DeltaPercent: 0.3}},
		{ID: 2},
	}})
	if v.Rows[0].Badge == nil || v.Rows[0].Badge.Median != "200 EUR" {
		t.Fatalf("expected badge on first row: %+v", v.Rows[0].Badge)
	}
	if v.Rows[1].Badge != nil {
		t.Fatalf("expected no badge on second row")
	}
}

func TestParseForm(t *testing.T) {
	nw, err := app.ParseForm(domain.WatchForm{
		Origin: " SFO ", Destination: "JFK", DepartureDate: "2026-12-01",
		Pax: "abc", Cabin: "", ConfirmPrice: "not a number",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if nw.Origin != "SFO" || nw.Pax != 1 || nw.Cabin != domain.CabinEconomy {
		t.Fatalf("unexpected coercion: %+v", nw)
	}
	if nw.ConfirmPrice != nil || nw.AutoBookPrice != nil {
		t.Fatalf("prices must be null: %+v", nw)
	}

	_, err = app.ParseForm(domain.WatchForm{Origin: "SFO"})
	if !errors.Is(err, app.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}
