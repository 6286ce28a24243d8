package model

import "fmt"

// TripSelector names one of the fixed catalog trips.
type TripSelector string

const (
	TripUrubici            TripSelector = "urubici"
	TripCascataDoAvencal   TripSelector = "cascata-do-avencal"
	TripSerraDoRioDoRastro TripSelector = "serra-do-rio-do-rastro"
)

var catalog = map[TripSelector]Trip{
	TripUrubici: {
		Location:      "Urubici",
		DepartureDate: "05/10/2023",
		ReturnDate:    "09/10/2023",
		GuidedTour:    false,
		Lodging:       true,
		Breakfast:     true,
	},
	TripCascataDoAvencal: {
		Location:      "Cascata do Avencal",
		DepartureDate: "07/04/2023",
		ReturnDate:    "12/04/2023",
		GuidedTour:    true,
		Lodging:       true,
		Breakfast:     false,
	},
	TripSerraDoRioDoRastro: {
		Location:      "Serra do Rio do Rastro",
		DepartureDate: "20/09/2023",
		ReturnDate:    "24/09/2023",
		GuidedTour:    true,
		Lodging:       true,
		Breakfast:     true,
	},
}

// Valid reports whether s names a catalog trip.
func (s TripSelector) Valid() bool {
	_, ok := catalog[s]
	return ok
}

// Template returns a fresh copy of the catalog trip with an empty people list.
func (s TripSelector) Template() (Trip, error) {
	tpl, ok := catalog[s]
	if !ok {
		return Trip{}, fmt.Errorf("unknown trip selector %q", s)
	}
	return tpl.Clone(), nil
}

// SelectorFromLegacyFlags maps the legacy viagem1/viagem2/viagem3 form flags.
// The first flag wins; when neither of the first two is present the third
// trip is chosen, whether or not its flag was sent.
func SelectorFromLegacyFlags(first, second bool) TripSelector {
	switch {
	case first:
		return TripUrubici
	case second:
		return TripCascataDoAvencal
	default:
		return TripSerraDoRioDoRastro
	}
}
