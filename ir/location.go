package ir

// Location is an opaque handle into an Environment's location table. The
// zero value means "no location known" (§4.2). Locations are interned so
// that Decls and Types can carry a cheap, comparable value instead of a
// (file, line, column) triple.
type Location uint32

// IsValid reports whether l refers to an actual (file, line, column)
// triple rather than meaning "absent".
func (l Location) IsValid() bool { return l != 0 }

type locationEntry struct {
	file   string
	line   uint32
	column uint32
}

// locationTable interns (file, line, column) triples into small integer
// handles, owned by an Environment (§4.2).
type locationTable struct {
	entries []locationEntry
	index   map[locationEntry]Location
}

func newLocationTable() *locationTable {
	return &locationTable{index: make(map[locationEntry]Location)}
}

// create returns the Location handle for (file, line, column), minting a
// new one if this exact triple hasn't been seen before.
func (t *locationTable) create(file string, line, column uint32) Location {
	key := locationEntry{file: file, line: line, column: column}
	if loc, ok := t.index[key]; ok {
		return loc
	}
	t.entries = append(t.entries, key)
	loc := Location(len(t.entries))
	t.index[key] = loc
	return loc
}

// expand resolves a Location handle back to its (file, line, column)
// triple. It returns ok=false for the zero Location or for a handle that
// did not originate from this table.
func (t *locationTable) expand(l Location) (file string, line, column uint32, ok bool) {
	if !l.IsValid() || int(l) > len(t.entries) {
		return "", 0, 0, false
	}
	e := t.entries[l-1]
	return e.file, e.line, e.column, true
}

// CreateLocation interns a (file, line, column) triple against env and
// returns its handle.
func (e *Environment) CreateLocation(file string, line, column uint32) Location {
	if e.locations == nil {
		e.locations = newLocationTable()
	}
	return e.locations.create(file, line, column)
}

// ExpandLocation resolves a Location handle minted by this Environment
// back to its (file, line, column) triple.
func (e *Environment) ExpandLocation(l Location) (file string, line, column uint32, ok bool) {
	if e.locations == nil {
		return "", 0, 0, false
	}
	return e.locations.expand(l)
}
