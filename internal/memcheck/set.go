package memcheck

// ErrorSet keeps one Error per structural key.
type ErrorSet struct {
	items []*Error
	index map[Key]int
}

// NewErrorSet creates an empty set.
func NewErrorSet() *ErrorSet {
	return &ErrorSet{index: make(map[Key]int)}
}

// Add inserts e unless an equal error is already present.
// It reports whether e was inserted.
func (s *ErrorSet) Add(e *Error) bool {
	if e == nil {
		return false
	}
	key := e.Key()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, e)
	return true
}

// Contains reports whether an error with the same identity is present.
func (s *ErrorSet) Contains(e *Error) bool {
	if s == nil || e == nil {
		return false
	}
	_, ok := s.index[e.Key()]
	return ok
}

// Len returns the number of distinct errors.
func (s *ErrorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the errors. The order carries no meaning.
// ВАЖНО: срез общий с ErrorSet, не модифицируйте его.
func (s *ErrorSet) Items() []*Error {
	if s == nil {
		return nil
	}
	return s.items
}
