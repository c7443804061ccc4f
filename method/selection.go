package method

// Selection is the set of enabled methods. It is a value type so a session can hand it out
// without sharing mutable state.
type Selection uint8

// NewSelection returns a selection with the given kinds enabled. Invalid kinds are ignored.
func NewSelection(kinds ...Kind) Selection {
	var s Selection
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// SelectAll returns a selection with every method enabled
func SelectAll() Selection {
	return NewSelection(All()...)
}

// ParseSelection builds a selection from display names. Duplicates are allowed, unknown names
// are rejected.
func ParseSelection(names []string) (Selection, error) {
	var s Selection
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return 0, err
		}
		s = s.With(k)
	}
	return s, nil
}

// Has reports whether k is enabled
func (s Selection) Has(k Kind) bool {
	if !k.Valid() {
		return false
	}
	return s&(1<<uint(k)) != 0
}

// With returns a copy of the selection with k enabled
func (s Selection) With(k Kind) Selection {
	if !k.Valid() {
		return s
	}
	return s | 1<<uint(k)
}

// Without returns a copy of the selection with k disabled
func (s Selection) Without(k Kind) Selection {
	if !k.Valid() {
		return s
	}
	return s &^ (1 << uint(k))
}

// Len returns the number of enabled methods
func (s Selection) Len() int {
	return len(s.Kinds())
}

// Kinds returns the enabled methods in canonical order, regardless of the order they were
// added in
func (s Selection) Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for _, k := range All() {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Names returns the display names of the enabled methods in canonical order
func (s Selection) Names() []string {
	kinds := s.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return names
}
