// Package panel arbitrates which mounted instance of a slide-up content panel
// gets to render it.
//
// A panel is open when the page's "panel" query parameter equals its slug. The
// same panel can be mounted more than once on a page (a card may appear in
// several sections), so a Registry records which instance owns each slug and
// only the owner renders. A Registry lives for one page render; the query
// parameter alone is enough to rebuild the open state on the next request.
package panel

import "sync"

type Registry struct {
	m      sync.Mutex
	owners map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		owners: map[string]string{},
	}
}

// Register claims slug for id if nobody owns it yet. An existing claim is
// never overwritten.
func (r *Registry) Register(slug, id string) {
	r.m.Lock()
	defer r.m.Unlock()
	if _, owned := r.owners[slug]; !owned {
		r.owners[slug] = id
	}
}

// Unregister releases slug, but only when id is the current owner. A late
// release from an instance that lost the race is a no-op.
func (r *Registry) Unregister(slug, id string) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.owners[slug] == id {
		delete(r.owners, slug)
	}
}

// IsFirst reports whether id may render slug: it owns it, or nobody does.
func (r *Registry) IsFirst(slug, id string) bool {
	r.m.Lock()
	defer r.m.Unlock()
	owner, owned := r.owners[slug]
	return !owned || owner == id
}

func (r *Registry) Owner(slug string) (string, bool) {
	r.m.Lock()
	defer r.m.Unlock()
	owner, owned := r.owners[slug]
	return owner, owned
}
