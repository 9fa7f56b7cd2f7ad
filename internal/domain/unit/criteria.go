package unit

import "staybooker/internal/domain/booking"

// SearchCriteria narrows a unit search. Nil fields are not applied.
type SearchCriteria struct {
	Rooms        *int
	Type         *AccommodationType
	Floor        *int
	MaxCostCents *int64
	Dates        *booking.DateRange
}

// Sort orders a search result page.
type Sort struct {
	By        string
	Ascending bool
}
