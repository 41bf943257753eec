package ir

import (
	"encoding/binary"
	"hash/fnv"
	"reflect"
)

// HashTypeOrDecl returns a content hash of n suitable for bucketing
// candidates before a full structural Equals call, or for emitting a
// stable identifier in a report (§6 query API: "returns the canonical
// pointer value when available, else a recursive structural hash").
//
// Once a Type has been canonicalized, its canonical pointer is already a
// perfect, O(1) proxy for structural identity, so the hash is taken over
// that pointer instead of recomputing the internal pretty-representation.
// Uncanonicalized types hash their internal pretty-representation, so
// structurally equal types (as Equals defines equality) always hash
// identically even before canonicalize() has run; Decls that aren't also
// a Type hash their qualified name plus kind, to distinguish e.g. a
// namespace and a class that happen to share a name at different scopes.
func HashTypeOrDecl(n Node) uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(n.Kind())})
	switch v := n.(type) {
	case Type:
		if c := v.CanonicalType(); c != nil {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(reflect.ValueOf(c).Pointer()))
			h.Write(buf[:])
			break
		}
		h.Write([]byte(v.PrettyRepresentation(true)))
	case Decl:
		h.Write([]byte(v.QualifiedName(true)))
	}
	return h.Sum64()
}

// GetHash is an alias for HashTypeOrDecl kept for parity with the
// source's get_hash name (§6 query API).
func GetHash(n Node) uint64 { return HashTypeOrDecl(n) }
