// Package admin describes the back-office resources and provides a client
// side store that loads an entity together with its related panels.
package admin

import (
	"fmt"
	"net/url"
)

// Kind is an admin entity type as it appears in the URL
type Kind string

const (
	KindEvents        Kind = "events"
	KindProducts      Kind = "products"
	KindVendors       Kind = "vendors"
	KindCustomers     Kind = "customers"
	KindEventManagers Kind = "event-managers"
	KindOrders        Kind = "orders"
)

// Related is a sub-resource shown next to an entity, fetched from
// /admin/{kind}/{id}/{suffix}
type Related struct {
	Name   string
	Suffix string
}

// Resource describes one admin entity type
type Resource struct {
	Kind    Kind
	Related []Related
}

func related(names ...string) []Related {
	out := make([]Related, len(names))
	for i, n := range names {
		out[i] = Related{Name: n, Suffix: n}
	}
	return out
}

var catalog = map[Kind]Resource{
	KindEvents:        {Kind: KindEvents, Related: related("stats", "attendees")},
	KindProducts:      {Kind: KindProducts, Related: related("metrics")},
	KindVendors:       {Kind: KindVendors, Related: related("stats", "top-ordered", "revenue")},
	KindCustomers:     {Kind: KindCustomers, Related: related("data")},
	KindEventManagers: {Kind: KindEventManagers, Related: related("top-events", "upcoming-events", "past-events")},
	KindOrders:        {Kind: KindOrders},
}

// Lookup returns the resource for a kind
func Lookup(kind string) (Resource, bool) {
	r, ok := catalog[Kind(kind)]
	return r, ok
}

// MustLookup is Lookup for kinds known at compile time
func MustLookup(kind Kind) Resource {
	r, ok := catalog[kind]
	if !ok {
		panic(fmt.Sprintf("unknown admin resource %q", kind))
	}
	return r
}

// Kinds lists every admin entity type
func Kinds() []Kind {
	return []Kind{KindEvents, KindProducts, KindVendors, KindCustomers, KindEventManagers, KindOrders}
}

// HasRelated reports whether name is a related sub-resource of r
func (r Resource) HasRelated(name string) bool {
	for _, rel := range r.Related {
		if rel.Name == name {
			return true
		}
	}
	return false
}

// ListPath returns /admin/{kind}
func (r Resource) ListPath() string {
	return "/admin/" + string(r.Kind)
}

// DetailPath returns /admin/{kind}/{id}
func (r Resource) DetailPath(id string) string {
	return r.ListPath() + "/" + url.PathEscape(id)
}

// RelatedPath returns /admin/{kind}/{id}/{suffix}
func (r Resource) RelatedPath(id string, rel Related) string {
	return r.DetailPath(id) + "/" + rel.Suffix
}
