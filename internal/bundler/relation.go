package bundler

// Relation is a "set-with-insertion-order of other modules" (spec.md §3
// Data Model) — the shape backing a Module's includes, requires, and
// externals.
type Relation struct {
	order []*Module
	seen  map[*Module]bool
}

func newRelation() *Relation {
	return &Relation{seen: map[*Module]bool{}}
}

// add appends m if it isn't already present; reports whether it was added.
func (r *Relation) add(m *Module) bool {
	if r.seen[m] {
		return false
	}
	r.seen[m] = true
	r.order = append(r.order, m)
	return true
}

func (r *Relation) contains(m *Module) bool {
	return r.seen[m]
}

// List returns the relation's members in insertion order. The returned
// slice is owned by the caller; Relation never mutates a slice it has
// already handed out.
func (r *Relation) List() []*Module {
	out := make([]*Module, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Relation) Len() int { return len(r.order) }
