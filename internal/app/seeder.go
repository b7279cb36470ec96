package app

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/semaphore"

	"flightwatch_web/internal/domain"
)

// SeedEntry is one watch in a seed file.
type SeedEntry struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departure_date"`
	Pax           int      `json:"pax"`
	Cabin         string   `json:"cabin"`
	ConfirmPrice  *float64 `json:"confirm_price"`
}

// Form renders the entry as if typed into the add-watch form, so seeding
// goes through the same validation and coercion.
func (e SeedEntry) Form() domain.WatchForm {
	f := domain.DefaultWatchForm()
	f.Origin = e.Origin
	f.Destination = e.Destination
	f.DepartureDate = e.DepartureDate
	if e.Pax > 0 {
		f.Pax = strconv.Itoa(e.Pax)
	}
	if e.Cabin != "" {
		f.Cabin = e.Cabin
	}
	if e.ConfirmPrice != nil {
		f.ConfirmPrice = strconv.FormatFloat(*e.ConfirmPrice, 'f', -1, 64)
	}
	return f
}

type SeedResult struct {
	Index int
	Watch domain.NewWatch
	Err   error
}

type Seeder struct {
	api     domain.WatchAPI
	workers int
}

func NewSeeder(api domain.WatchAPI, workers int) *Seeder {
	if workers <= 0 {
		workers = 1
	}
	return &Seeder{api: api, workers: workers}
}

// Run posts every valid entry once, at most s.workers at a time. Results are
// in input order. Invalid entries fail with ErrMissingFields and are never
// sent.
func (s *Seeder) Run(ctx context.Context, entries []SeedEntry) []SeedResult {
	out := make([]SeedResult, len(entries))
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup

	for i, e := range entries {
		out[i].Index = i
		nw, err := ParseForm(e.Form())
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Watch = nw

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			out[i].Err = err
			continue
		}
		wg.Add(1)
		go func(i int, nw domain.NewWatch) {
			defer wg.Done()
			defer sem.Release(1)
			out[i].Err = s.api.CreateWatch(ctx, nw)
		}(i, nw)
	}

	wg.Wait()
	return out
}
