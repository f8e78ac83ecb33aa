package align

// ColumnSet is an insertion-ordered set of column names.
type ColumnSet struct {
	names []string
	index map[string]int
}

// NewColumnSet creates a set holding names in order, duplicates dropped.
func NewColumnSet(names ...string) *ColumnSet {
	s := &ColumnSet{index: make(map[string]int, len(names))}
	s.Add(names...)
	return s
}

// Add appends the names not yet in the set.
func (s *ColumnSet) Add(names ...string) {
	for _, name := range names {
		if _, ok := s.index[name]; ok {
			continue
		}
		s.index[name] = len(s.names)
		s.names = append(s.names, name)
	}
}

// Index returns the position of name, or -1.
func (s *ColumnSet) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of names.
func (s *ColumnSet) Len() int {
	return len(s.names)
}

// Names returns a copy of the names in insertion order.
func (s *ColumnSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
