package util

import "iter"

// Stack is a LIFO backed by a slice. The zero value is an empty stack
type Stack[A any] struct {
	items []A
}

func NewStack[A any](items ...A) *Stack[A] {
	return &Stack[A]{items: items}
}

func (s *Stack[A]) Push(v A) {
	s.items = append(s.items, v)
}

func (s *Stack[A]) Pop() (ret A, ok bool) {
	if len(s.items) <= 0 {
		return ret, false
	}
	lastIndex := len(s.items) - 1
	defer func() {
		s.items = s.items[:lastIndex]
	}()
	return s.items[len(s.items)-1], true
}

// Peek returns the top of the stack without removing it
func (s *Stack[A]) Peek() (ret A, ok bool) {
	if len(s.items) <= 0 {
		return ret, false
	}
	return s.items[len(s.items)-1], true
}

func (s *Stack[A]) Len() int {
	return len(s.items)
}

// At returns the element at position i, counting from the bottom of the stack
func (s *Stack[A]) At(i int) A {
	return s.items[i]
}

// Backward iterates from the top of the stack to the bottom
func (s *Stack[A]) Backward() iter.Seq[A] {
	return Reverse(s.items)
}
