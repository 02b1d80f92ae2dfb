package property

// Builder accumulates properties for an entity. Every mutating method
// returns the same builder so calls can be chained. A Builder is not safe
// for concurrent use; build the snapshot before sharing.
type Builder struct {
	order []string
	props map[string]Property
}

// NewBuilder creates an empty property builder.
func NewBuilder() *Builder {
	return &Builder{props: make(map[string]Property)}
}

// Add registers a property. A nil property is silently ignored so call sites
// can chain conditional helpers without nil checks. Adding a name that is
// already present overwrites the earlier value and description but keeps the
// property's original position; names are unique in the built snapshot.
func (b *Builder) Add(p *Property) *Builder {
	if p == nil {
		return b
	}
	if _, exists := b.props[p.Name]; !exists {
		b.order = append(b.order, p.Name)
	}
	b.props[p.Name] = *p
	return b
}

// AddValue is shorthand for Add(New(name, value)).
func (b *Builder) AddValue(name string, value any) *Builder {
	return b.Add(New(name, value))
}

// AddAll registers every property in the collection. A nil collection is a
// no-op; nil elements are skipped.
func (b *Builder) AddAll(props []*Property) *Builder {
	if props == nil {
		return b
	}
	for _, p := range props {
		b.Add(p)
	}
	return b
}

// Remove deletes a property by name. Unknown names are ignored.
func (b *Builder) Remove(name string) *Builder {
	if _, exists := b.props[name]; !exists {
		return b
	}
	delete(b.props, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return b
}

// Clear removes every accumulated property.
func (b *Builder) Clear() *Builder {
	b.order = b.order[:0]
	b.props = make(map[string]Property)
	return b
}

// Len returns the number of accumulated properties.
func (b *Builder) Len() int {
	return len(b.props)
}

// Build snapshots the accumulated properties in insertion order. The
// returned slice is independent of the builder; further builder mutation
// does not affect it.
func (b *Builder) Build() []Property {
	out := make([]Property, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.props[name])
	}
	return out
}
