package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"flightwatch_web/internal/domain"
)

var ErrMissingFields = errors.New("missing required fields")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseForm validates the submitted text fields and coerces them into the
// create body. Only origin, destination and departure date are required.
func ParseForm(f domain.WatchForm) (domain.NewWatch, error) {
	f = trimForm(f)
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			names := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				names = append(names, fe.Field())
			}
			return domain.NewWatch{}, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(names, ", "))
		}
		return domain.NewWatch{}, err
	}

	cabin := f.Cabin
	if cabin == "" {
		cabin = domain.DefaultCabin
	}
	return domain.NewWatch{
		Origin:        f.Origin,
		Destination:   f.Destination,
		DepartureDate: f.DepartureDate,
		Pax:           parsePax(f.Pax),
		Cabin:         cabin,
		ConfirmPrice:  parsePrice(f.ConfirmPrice),
		AutoBookPrice: nil,
	}, nil
}

func trimForm(f domain.WatchForm) domain.WatchForm {
	return domain.WatchForm{
		Origin:        strings.TrimSpace(f.Origin),
		Destination:   strings.TrimSpace(f.Destination),
		DepartureDate: strings.TrimSpace(f.DepartureDate),
		Pax:           strings.TrimSpace(f.Pax),
		Cabin:         strings.TrimSpace(f.Cabin),
		ConfirmPrice:  strings.TrimSpace(f.ConfirmPrice),
	}
}

func parsePax(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return domain.DefaultPax
	}
	return n
}

// parsePrice: empty or not a finite number -> nil.
func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
