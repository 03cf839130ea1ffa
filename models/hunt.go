package models

import "time"

// Target is one configured hunt entry: a pet name and the maximum price
// we are willing to pay for it. Targets are loaded once per run and never
// mutated afterwards.
type Target struct {
	Name     string
	MaxPrice float64
}

// Listing is a structured record derived from one scraped result card.
// All listings produced during a single hunt run share the same timestamp
// so that one cycle can be correlated in the history log.
type Listing struct {
	Timestamp time.Time
	Name      string
	Price     float64
}

// Alert is a qualifying, deduplicated listing worth notifying about.
// TargetName is the configured target that matched; ObservedName is the
// full listing name as scraped, which may be longer than the target name.
type Alert struct {
	TargetName   string
	ObservedName string
	Price        float64
	MaxPrice     float64
}

// RunSummary holds the computed statistics for one hunt run.
type RunSummary struct {
	TotalListings     int
	DistinctNames     int
	MinPrice          float64
	MaxPrice          float64
	AveragePrice      float64
	Cheapest          *Listing
	ListingsByTarget  map[string]int
	UnmatchedListings int
	AlertCount        int
}
