package panel

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/nordlys/portfolio/shared"
)

// Mount is a single mounted instance of a panel
type Mount struct {
	Slug string
	ID   string
	// Open is true when the query selects this panel's slug, whichever
	// instance ends up rendering it
	Open bool
	// Visible is true when this instance is the one that renders the panel
	Visible bool

	registry *Registry
}

// Mount creates a new instance of the panel for slug. Instances of an open
// panel register themselves, so the first one mounted wins.
func (r *Registry) Mount(query url.Values, slug string) *Mount {
	m := &Mount{
		Slug:     slug,
		ID:       uuid.NewString(),
		Open:     IsOpen(query, slug),
		registry: r,
	}
	if m.Open {
		r.Register(slug, m.ID)
	}
	m.Visible = m.Open && r.IsFirst(slug, m.ID)
	return m
}

// Unmount hands an open panel back so the next mounted instance can own it.
// Page renders use a registry per request and never need it.
func (m *Mount) Unmount() {
	if m.Open {
		m.registry.Unregister(m.Slug, m.ID)
	}
}

func IsOpen(query url.Values, slug string) bool {
	return slug != "" && query.Get(shared.PANEL_QUERY_PARAM) == slug
}

// SetOpen returns a copy of query with the panel parameter set to slug, or
// removed when open is false. Every other parameter is kept.
func SetOpen(query url.Values, slug string, open bool) url.Values {
	next := url.Values{}
	for k, v := range query {
		next[k] = append([]string(nil), v...)
	}
	if open {
		next.Set(shared.PANEL_QUERY_PARAM, slug)
	} else {
		next.Del(shared.PANEL_QUERY_PARAM)
	}
	return next
}

func Href(path string, query url.Values) string {
	if encoded := query.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
