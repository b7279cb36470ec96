package domain

// Cabin classes accepted by the watch backend.
const (
	CabinEconomy        = "ECONOMY"
	CabinPremiumEconomy = "PREMIUM_ECONOMY"
	CabinBusiness       = "BUSINESS"
	CabinFirst          = "FIRST"
)

var Cabins = []string{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst}

const (
	DefaultPax   = 1
	DefaultCabin = CabinEconomy
)

// Watch is a registered flight watch as returned by GET /watch.
type Watch struct {
	ID            int64                   `json:"id"`
	Origin        string                  `json:"origin"`
	Destination   string                  `json:"destination"`
	DepartureDate string                  `json:"departure_date"`
	Pax           int                     `json:"pax"`
	Cabin         string                  `json:"cabin"`
	AutoBookPrice *float64                `json:"auto_book_price"`
	ConfirmPrice  *float64                `json:"confirm_price"`
	Currency      string                  `json:"currency"`
	Typical       *TypicalPriceComparison `json:"typical_price_details,omitempty"`
}

// TypicalPriceComparison is computed by the backend and only displayed here.
// DeltaPercent is a signed fraction: 0.12 means 12% above the median.
type TypicalPriceComparison struct {
	Median       float64 `json:"median"`
	DeltaPercent float64 `json:"delta_percent"`
}

// NewWatch is the body of POST /watch.
type NewWatch struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departure_date"`
	Pax           int      `json:"pax"`
	Cabin         string   `json:"cabin"`
	ConfirmPrice  *float64 `json:"confirm_price"`
	AutoBookPrice *float64 `json:"auto_book_price"`
}

// WatchForm holds the raw text of the add-watch form. Prices stay text
// until submit.
type WatchForm struct {
	Origin        string `json:"origin" validate:"required"`
	Destination   string `json:"destination" validate:"required"`
	DepartureDate string `json:"departure_date" validate:"required"`
	Pax           string `json:"pax"`
	Cabin         string `json:"cabin"`
	ConfirmPrice  string `json:"confirm_price"`
}

// DefaultWatchForm is the form as first shown and after a successful submit.
func DefaultWatchForm() WatchForm {
	return WatchForm{Pax: "1", Cabin: DefaultCabin}
}
