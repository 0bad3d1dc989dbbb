// Package pos provides the part-of-speech classification capability
// consumed by the candidate filter. The lookup data is read-only and is
// either built directly or loaded from a msgpack table file.
package pos

// Matcher answers the id classification queries the filter needs. It is
// injected at filter construction so tests can supply fakes.
type Matcher interface {
	// IsNounPrefix reports whether the connection id belongs to the
	// noun-prefix category.
	IsNounPrefix(id uint16) bool
	// LastNameID returns the connection id of the last-name category.
	LastNameID() uint16
	// FirstNameID returns the connection id of the first-name category.
	FirstNameID() uint16
}

// Table is a Matcher backed by explicit id sets.
type Table struct {
	NounPrefix []uint16 `msgpack:"noun_prefix"`
	LastName   uint16   `msgpack:"last_name"`
	FirstName  uint16   `msgpack:"first_name"`

	nounPrefixSet map[uint16]struct{}
}

// NewTable builds a table from the given ids.
func NewTable(nounPrefix []uint16, lastName, firstName uint16) *Table {
	t := &Table{
		NounPrefix: nounPrefix,
		LastName:   lastName,
		FirstName:  firstName,
	}
	t.index()
	return t
}

func (t *Table) index() {
	t.nounPrefixSet = make(map[uint16]struct{}, len(t.NounPrefix))
	for _, id := range t.NounPrefix {
		t.nounPrefixSet[id] = struct{}{}
	}
}

// IsNounPrefix reports whether id is in the noun-prefix set.
func (t *Table) IsNounPrefix(id uint16) bool {
	if t.nounPrefixSet == nil {
		t.index()
	}
	_, ok := t.nounPrefixSet[id]
	return ok
}

// LastNameID returns the last-name category id.
func (t *Table) LastNameID() uint16 {
	return t.LastName
}

// FirstNameID returns the first-name category id.
func (t *Table) FirstNameID() uint16 {
	return t.FirstName
}
