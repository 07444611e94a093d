// Package geo abstracts the IP geolocation collaborator. Lookups are
// best-effort: a miss or a failing provider degrades to "Unknown"
// attributes, it never fails the enclosing operation.
package geo

import "context"

// Location is the resolved geography for an IP address.
type Location struct {
	Country string
	City    string
}

// Locator resolves an IP address to a location. The boolean result
// reports whether anything was found.
type Locator interface {
	Lookup(ctx context.Context, ip string) (Location, bool)
}

// NoopLocator is a Locator that never finds anything. It stands in when
// no geolocation database is configured.
type NoopLocator struct{}

// NewNoopLocator creates a locator that always misses.
func NewNoopLocator() *NoopLocator {
	return &NoopLocator{}
}

func (*NoopLocator) Lookup(context.Context, string) (Location, bool) {
	return Location{}, false
}

// StaticLocator serves lookups from a fixed in-memory table. Useful for
// tests and for small curated datasets.
type StaticLocator struct {
	entries map[string]Location
}

// NewStaticLocator creates a locator over a fixed ip->location table.
func NewStaticLocator(entries map[string]Location) *StaticLocator {
	return &StaticLocator{entries: entries}
}

func (s *StaticLocator) Lookup(_ context.Context, ip string) (Location, bool) {
	loc, ok := s.entries[ip]
	return loc, ok
}
