package core

// Stack is a reusable LIFO scratch buffer handed out by a Pool
type Stack[T any] struct {
	items []T
}

// Push appends v
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top element. Panics on an empty stack.
func (s *Stack[T]) Pop() T {
	n := len(s.items) - 1
	v := s.items[n]
	var zero T
	s.items[n] = zero
	s.items = s.items[:n]
	return v
}

// Top returns a pointer to the top element
func (s *Stack[T]) Top() *T {
	return &s.items[len(s.items)-1]
}

// At returns a pointer to element i counted from the bottom
func (s *Stack[T]) At(i int) *T {
	return &s.items[i]
}

// Len returns the number of elements
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Empty reports whether the stack has no elements
func (s *Stack[T]) Empty() bool {
	return len(s.items) == 0
}

// Clear drops every element
func (s *Stack[T]) Clear() {
	var zero T
	for i := range s.items {
		s.items[i] = zero
	}
	s.items = s.items[:0]
}

// Items returns the elements bottom first
func (s *Stack[T]) Items() []T {
	return s.items
}

// Pool hands out stacks that are empty on checkout and must be empty again
// on return. A pool belongs to one trace engine and is not safe for
// concurrent use.
type Pool[T any] struct {
	free []*Stack[T]

	// Name appears in misuse panics
	Name string
}

// Acquire checks out an empty stack
func (p *Pool[T]) Acquire() *Stack[T] {
	n := len(p.free)
	if n == 0 {
		return &Stack[T]{}
	}
	s := p.free[n-1]
	p.free = p.free[:n-1]
	if !s.Empty() {
		panic(poolMisuse(p.Name))
	}
	return s
}

// Release returns a stack to the pool. Panics if it still holds elements,
// since that means a caller unwound without draining it.
func (p *Pool[T]) Release(s *Stack[T]) {
	if !s.Empty() {
		panic(poolMisuse(p.Name))
	}
	p.free = append(p.free, s)
}

// ReleaseCleared empties s and returns it to the pool, for scratch
// vectors whose contents are discarded wholesale
func (p *Pool[T]) ReleaseCleared(s *Stack[T]) {
	s.Clear()
	p.free = append(p.free, s)
}
