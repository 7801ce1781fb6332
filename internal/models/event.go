package models

import "time"

// Event categories and cities offered by the catalog filters. The first
// entry of each list is the "no filter" value.
var (
	Categories = []string{"All", "Music", "Tech", "Sports", "Business"}
	Cities     = []string{"Any", "New York", "San Francisco", "Berlin", "London", "Oakland", "San Jose"}
)

// Event is a listed event with a fixed ticket allocation.
type Event struct {
	ID               int64
	Title            string
	Category         string
	City             string
	Venue            string
	Start            time.Time
	End              time.Time
	PriceUSD         float64
	AvailableTickets int
	BannerURL        string
	Description      string
}

// EventFilter narrows catalog listings. Zero values mean "no filter":
// empty Query, category "All" (or empty), city "Any" (or empty), nil Date.
type EventFilter struct {
	Query    string
	Category string
	City     string
	Date     *time.Time // matches events starting on this calendar day
}
