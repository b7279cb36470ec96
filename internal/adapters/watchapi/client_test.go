package watchapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"flightwatch_web/internal/adapters/watchapi"
	"flightwatch_web/internal/domain"
)

func newClient(t *testing.T, url string) *watchapi.Client {
	t.Helper()
	cl, err := watchapi.New(url, nil, 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_ListWatches_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/watch" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("list must not send query params, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":7,"origin":"SFO","destination":"JFK","departure_date":"2026-12-01","pax":2,"cabin":"BUSINESS",
			 "auto_book_price":null,"confirm_price":450,"currency":"USD",
			 "typical_price_details":{"median":500,"delta_percent":-0.1}},
			{"id":3,"origin":"LAX","destination":"SEA","departure_date":"2026-11-20","pax":1,"cabin":"ECONOMY",
			 "auto_book_price":null,"confirm_price":null,"currency":"USD"}
		]`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := newClient(t, ts.URL+"/").ListWatches(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 watches, got %d", len(got))
	}
	// server order is kept
	if got[0].ID != 7 || got[1].ID != 3 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].ConfirmPrice == nil || *got[0].ConfirmPrice != 450 {
		t.Fatalf("unexpected confirm price: %+v", got[0].ConfirmPrice)
	}
	if got[0].Typical == nil || got[0].Typical.Median != 500 {
		t.Fatalf("unexpected typical: %+v", got[0].Typical)
	}
	if got[1].Typical != nil || got[1].ConfirmPrice != nil {
		t.Fatalf("expected no typical/confirm on second watch: %+v", got[1])
	}
}

func TestClient_ListWatches_Non2xxIsAPIError(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"db down"}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).ListWatches(context.Background())
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 500 || apiErr.Detail != "" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	// no retries
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly 1 call, got %d", n)
	}
}

func TestClient_CreateWatch_SendsBody(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	price := 199.5
	err := newClient(t, ts.URL).CreateWatch(context.Background(), domain.NewWatch{
		Origin: "SFO", Destination: "JFK", DepartureDate: "2026-12-01",
		Pax: 1, Cabin: "ECONOMY", ConfirmPrice: &price,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["origin"] != "SFO" || got["destination"] != "JFK" || got["departure_date"] != "2026-12-01" {
		t.Fatalf("unexpected body: %+v", got)
	}
	if got["pax"] != 1.0 || got["cabin"] != "ECONOMY" || got["confirm_price"] != 199.5 {
		t.Fatalf("unexpected body: %+v", got)
	}
	if v, ok := got["auto_book_price"]; !ok || v != nil {
		t.Fatalf("auto_book_price must be present and null: %+v", got)
	}
}

func TestClient_CreateWatch_Detail(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		detail string
	}{
		{"string detail", `{"detail":"Watch already exists."}`, "Watch already exists."},
		{"validation list", `{"detail":[{"loc":["body","origin"],"msg":"too short"}]}`, ""},
		{"not json", `oops`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			err := newClient(t, ts.URL).CreateWatch(context.Background(), domain.NewWatch{Origin: "A"})
			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Detail != tc.detail {
				t.Fatalf("unexpected api error: %+v", apiErr)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := newClient(t, url).ListWatches(context.Background())
	if err == nil {
		t.Fatalf("expected error for closed server")
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not look like an API error: %v", err)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := watchapi.New("  ", nil, 1); err == nil {
		t.Fatalf("expected error for empty base")
	}
}
