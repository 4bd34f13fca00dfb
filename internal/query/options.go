package query

import (
	"sort"

	"github.com/rcanty/pulsefeed/internal/event"
)

// Options holds the distinct, sorted values available for each filter
// predicate, derived from the current snapshot. Clients use it to
// populate filter controls.
type Options struct {
	Regions         []string `json:"regions"`
	Cities          []string `json:"cities"`
	Venues          []string `json:"venues"`
	Tags            []string `json:"tags"`
	Organizers      []string `json:"organizers"`
	AgeRestrictions []string `json:"ageRestrictions"`
}

// CollectOptions scans the event collection and gathers the distinct
// value sets for every filterable field, each sorted ascending.
func CollectOptions(events []event.Event) Options {
	regions := make(map[string]bool)
	cities := make(map[string]bool)
	venues := make(map[string]bool)
	tags := make(map[string]bool)
	organizers := make(map[string]bool)
	ages := make(map[string]bool)

	for i := range events {
		evt := &events[i]
		if evt.Venue.Region != "" {
			regions[evt.Venue.Region] = true
		}
		if evt.Venue.City != "" {
			cities[evt.Venue.City] = true
		}
		if evt.Venue.Name != "" {
			venues[evt.Venue.Name] = true
		}
		for _, t := range evt.Tags {
			tags[t] = true
		}
		for _, o := range evt.Organizers {
			organizers[o] = true
		}
		if evt.AgeRestriction != "" {
			ages[evt.AgeRestriction] = true
		}
	}

	return Options{
		Regions:         sortedKeys(regions),
		Cities:          sortedKeys(cities),
		Venues:          sortedKeys(venues),
		Tags:            sortedKeys(tags),
		Organizers:      sortedKeys(organizers),
		AgeRestrictions: sortedKeys(ages),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
