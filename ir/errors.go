package ir

import "errors"

// Sentinel errors for the contract violations enumerated in §7.
var (
	errDeclAlreadyScoped  = errors.New("ir: decl already belongs to a scope")
	errAliasOfNonMain     = errors.New("ir: cannot add alias to a symbol that is not a main symbol")
	errMutateCanonical    = errors.New("ir: cannot mutate a type that has already been assigned a canonical type")
	errNoSuchAlias        = errors.New("ir: symbol is not an alias of the given main symbol")
)

// debugAssertions gates the ContractViolation-class panics described in
// §7 (adding an alias to a non-main symbol, mutating a canonicalized
// type). Attaching an already-scoped decl is not gated by it:
// AddDeclToScope and InsertDeclIntoScope always return
// errDeclAlreadyScoped for that case. It defaults to true so
// programming errors surface during development and in tests; a
// front-end embedding this package for a hot, already-validated path may
// set it false.
var debugAssertions = true

// SetDebugAssertions toggles the contract-violation panics. Intended for
// callers that have already validated their own invariants and want to
// skip the redundant checks on a hot path.
func SetDebugAssertions(enabled bool) { debugAssertions = enabled }

// assertContract panics with err if debugAssertions is enabled and cond
// is false. It exists so every call site reads as a named invariant
// rather than a bare "if ... { panic }".
func assertContract(cond bool, err error) {
	if debugAssertions && !cond {
		panic(err)
	}
}
