package ir

// SymbolType mirrors the ELF symbol type field relevant to ABI
// comparison (§4.3).
type SymbolType int

const (
	SymbolTypeNone SymbolType = iota
	SymbolTypeObject
	SymbolTypeFunc
	SymbolTypeCommonData
	SymbolTypeTLS
)

// SymbolBinding mirrors the ELF symbol binding field (§4.3). Distinct
// from Binding, which describes a Decl's own storage binding
// independent of whether it has a Symbol at all.
type SymbolBinding int

const (
	SymbolBindingGlobal SymbolBinding = iota
	SymbolBindingLocal
	SymbolBindingWeak
	SymbolBindingGNUUnique
)

// SymbolVisibility mirrors the ELF symbol visibility field (§4.3).
type SymbolVisibility int

const (
	SymbolVisibilityDefault SymbolVisibility = iota
	SymbolVisibilityProtected
	SymbolVisibilityHidden
	SymbolVisibilityInternal
)

// Symbol is the ELF-style symbol-table entry model described in §4.3: a
// name, an optional version, a type/binding/visibility, and a ring of
// aliases rooted at the symbol's main symbol.
//
// The alias ring is a singly-linked cycle through nextAlias, rooted at
// mainSymbol (which points to itself when the symbol has no aliases).
// This mirrors the source's "elf_symbol" aliasing scheme without needing
// a separate owning container: walking nextAlias from any member of the
// ring visits every alias exactly once before returning to the start
// (ring invariant I6).
type Symbol struct {
	Index      int
	Size       uint64
	Name       string
	Version    string
	VersionIsDefault bool // "@@version" vs "@version" in id_string()
	Type       SymbolType
	Binding    SymbolBinding
	Visibility SymbolVisibility
	IsDefined  bool

	mainSymbol *Symbol
	nextAlias  *Symbol
}

// NewSymbol creates a new Symbol that is its own main symbol and has no
// aliases, per §4.3's create(index, size, name, type, binding, defined,
// version) factory.
func NewSymbol(index int, size uint64, name string, typ SymbolType, binding SymbolBinding, defined bool, version string) *Symbol {
	s := &Symbol{
		Index:     index,
		Size:      size,
		Name:      name,
		Type:      typ,
		Binding:   binding,
		IsDefined: defined,
		Version:   version,
	}
	s.mainSymbol = s
	s.nextAlias = s
	return s
}

// IsMainSymbol reports whether s is the main symbol of its alias ring
// (§4.3).
func (s *Symbol) IsMainSymbol() bool { return s.mainSymbol == s }

// GetMainSymbol returns the main symbol of s's alias ring.
func (s *Symbol) GetMainSymbol() *Symbol { return s.mainSymbol }

// HasAliases reports whether s's alias ring contains more than just s
// itself.
func (s *Symbol) HasAliases() bool {
	return s.mainSymbol.nextAlias != s.mainSymbol
}

// GetNumberOfAliases returns the number of aliases of s's main symbol,
// not counting the main symbol itself.
func (s *Symbol) GetNumberOfAliases() int {
	n := 0
	for cur := s.mainSymbol.nextAlias; cur != s.mainSymbol; cur = cur.nextAlias {
		n++
	}
	return n
}

// GetNextAlias returns the next symbol in s's alias ring after s,
// wrapping back to the main symbol. Returns nil if s has no aliases.
func (s *Symbol) GetNextAlias() *Symbol {
	if !s.HasAliases() {
		return nil
	}
	return s.nextAlias
}

// AddAlias inserts alias into s's ring. s must be a main symbol
// (ContractViolation otherwise, §7), since aliases are always recorded
// against the ring's root to keep every member's mainSymbol pointer
// valid without a second traversal.
func (s *Symbol) AddAlias(alias *Symbol) {
	assertContract(s.IsMainSymbol(), errAliasOfNonMain)
	alias.mainSymbol = s
	alias.nextAlias = s.nextAlias
	s.nextAlias = alias
}

// RemoveAlias unlinks alias from s's ring, restoring it to being its own
// main symbol. Returns an error if alias does not belong to s's ring.
func (s *Symbol) RemoveAlias(alias *Symbol) error {
	if alias.mainSymbol != s.mainSymbol {
		return errNoSuchAlias
	}
	main := s.mainSymbol
	for cur := main; ; cur = cur.nextAlias {
		if cur.nextAlias == alias {
			cur.nextAlias = alias.nextAlias
			break
		}
		if cur.nextAlias == main {
			return errNoSuchAlias
		}
	}
	alias.mainSymbol = alias
	alias.nextAlias = alias
	return nil
}

// DoesAlias reports whether s's alias ring contains a symbol that
// matches other's textual signature: the same Name, Type, IsDefined,
// IsPublic(), and Version, and — for object (variable) symbols — the
// same Size (§4.3). This is a textual test, not a pointer-identity check
// on mainSymbol: it answers whether other looks like a member of s's
// ring, independent of whether the two have actually been linked via
// AddAlias. The ring is walked exactly once (ring invariant I6).
func (s *Symbol) DoesAlias(other *Symbol) bool {
	if other == nil {
		return false
	}
	start := s.mainSymbol
	for cur := start; ; {
		if symbolsMatchTextually(cur, other) {
			return true
		}
		cur = cur.nextAlias
		if cur == start {
			return false
		}
	}
}

func symbolsMatchTextually(a, b *Symbol) bool {
	if a.Name != b.Name || a.Type != b.Type || a.IsDefined != b.IsDefined ||
		a.IsPublic() != b.IsPublic() || a.Version != b.Version {
		return false
	}
	if a.Type == SymbolTypeObject && a.Size != b.Size {
		return false
	}
	return true
}

// IsPublic reports whether s is visible outside its defining module:
// defined, with global, weak, or GNU-unique binding (§4.3).
func (s *Symbol) IsPublic() bool {
	return s.IsDefined &&
		(s.Binding == SymbolBindingGlobal || s.Binding == SymbolBindingWeak || s.Binding == SymbolBindingGNUUnique)
}

// IDString renders s as "name", "name@version", or "name@@version"
// (default version), the textual form used in native symbol tables and
// in abidiff-style reports (§4.3, §6).
func (s *Symbol) IDString() string {
	if s.Version == "" {
		return s.Name
	}
	if s.VersionIsDefault {
		return s.Name + "@@" + s.Version
	}
	return s.Name + "@" + s.Version
}

// Equal implements the "==" semantics described in §4.3: two symbols are
// equal if they have the same name, version, and visibility, or if s
// aliases other (DoesAlias).
func (s *Symbol) Equal(other *Symbol) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Name == other.Name &&
		s.Version == other.Version &&
		s.VersionIsDefault == other.VersionIsDefault &&
		s.Visibility == other.Visibility {
		return true
	}
	return s.DoesAlias(other)
}

// GetNameAndVersionFromIDString parses the textual form produced by
// IDString back into its (name, version, isDefault) components (§6).
func GetNameAndVersionFromIDString(id string) (name, version string, isDefault bool) {
	for i := 0; i < len(id); i++ {
		if id[i] != '@' {
			continue
		}
		if i+1 < len(id) && id[i+1] == '@' {
			return id[:i], id[i+2:], true
		}
		return id[:i], id[i+1:], false
	}
	return id, "", false
}
