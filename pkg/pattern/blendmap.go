package pattern

// BlendEntry is one control point of a blend map
type BlendEntry[T any] struct {
	Key   float64
	Value T
}

// BlendMap is an ordered list of control points keyed by pattern value.
// Keys must be non-decreasing.
type BlendMap[T any] struct {
	Entries []BlendEntry[T]
}

// NewBlendMap creates a blend map from entries in key order
func NewBlendMap[T any](entries ...BlendEntry[T]) *BlendMap[T] {
	return &BlendMap[T]{Entries: entries}
}

// Search finds the entries bracketing value and their interpolation
// weights. Values past either end clamp to that end; prev and cur are the
// same entry when no interpolation is needed.
func (m *BlendMap[T]) Search(value float64) (prev, cur *BlendEntry[T], prevWeight, curWeight float64) {
	last := len(m.Entries) - 1
	if value >= m.Entries[last].Key {
		e := &m.Entries[last]
		return e, e, 0.0, 1.0
	}

	p, n := 0, 0
	for value > m.Entries[n].Key {
		p = n
		n++
	}

	if value == m.Entries[n].Key || p == n {
		e := &m.Entries[n]
		return e, e, 0.0, 1.0
	}

	prev, cur = &m.Entries[p], &m.Entries[n]
	prevWeight = (cur.Key - value) / (cur.Key - prev.Key)
	return prev, cur, prevWeight, 1.0 - prevWeight
}

// Clone copies the entry list; values are shared
func (m *BlendMap[T]) Clone() *BlendMap[T] {
	if m == nil {
		return nil
	}
	return &BlendMap[T]{Entries: append([]BlendEntry[T](nil), m.Entries...)}
}
