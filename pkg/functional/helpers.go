package f

type Set[T comparable] struct {
	items map[T]struct{}
}

func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *Set[T]) Add(item T) {
	s.items[item] = struct{}{}
}

func (s *Set[T]) Remove(item T) {
	delete(s.items, item)
}

func (s *Set[T]) Contains(item T) bool {
	_, ok := s.items[item]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

// Items returns the set contents in no particular order
func (s *Set[T]) Items() []T {
	items := make([]T, 0, len(s.items))
	for item := range s.items {
		items = append(items, item)
	}
	return items
}

func Map[T any, K any](s []T, fn func(T) K) []K {
	result := make([]K, 0, len(s))
	for _, item := range s {
		result = append(result, fn(item))
	}
	return result
}

func Filtered[T any](s []T, fn func(T) bool) []T {
	result := make([]T, 0, len(s))
	for _, item := range s {
		if fn(item) {
			result = append(result, item)
		}
	}
	return result
}

// RemoveDuplicates keeps the first occurrence of each item, preserving order
func RemoveDuplicates[T comparable](s []T) []T {
	seen := NewSet[T]()
	return Filtered(s, func(item T) bool {
		if seen.Contains(item) {
			return false
		}
		seen.Add(item)
		return true
	})
}

// SlicesItemsMatch reports whether both slices hold the same items with the same multiplicity, in any order
func SlicesItemsMatch[T comparable](s1 []T, s2 []T) bool {
	if len(s1) != len(s2) {
		return false
	}
	counts := make(map[T]int, len(s1))
	for _, item := range s1 {
		counts[item]++
	}
	for _, item := range s2 {
		if counts[item] == 0 {
			return false
		}
		counts[item]--
	}
	return true
}
