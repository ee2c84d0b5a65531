package diag

// Bag accumulates diagnostics across phases. Append-only; the compiler
// merges one bag per phase in pipeline order so the final list is stable.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// AddAll appends a batch of diagnostics in order.
func (b *Bag) AddAll(ds []Diagnostic) {
	b.items = append(b.items, ds...)
}

// Merge appends every diagnostic from other.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// HasErrors reports whether any diagnostic has Error severity.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity == SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// CountBySeverity returns how many diagnostics carry the given severity.
func (b *Bag) CountBySeverity(s Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == s {
			n++
		}
	}
	return n
}

// Items returns the underlying slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
