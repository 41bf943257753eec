package ir

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/woodard/libabigail-sub000/internal/logging"
)

// envHolder is implemented by every type and decl so the environment-setter
// visitor (§4.8) can read and write the owning Environment generically.
type envHolder interface {
	environment() *Environment
	setEnvironment(*Environment)
}

func environmentOf(n Node) (*Environment, bool) {
	h, ok := n.(envHolder)
	if !ok {
		return nil, false
	}
	return h.environment(), true
}

func setEnvironmentOf(n Node, env *Environment) {
	if h, ok := n.(envHolder); ok {
		h.setEnvironment(env)
	}
}

// InconsistentEnvironmentError is returned when a sub-tree being attached
// to a scope contains a node already bound to a different Environment
// (§3.3 I-series invariants, §7 InconsistentEnvironment).
type InconsistentEnvironmentError struct {
	Node Node
}

func (e *InconsistentEnvironmentError) Error() string {
	return "ir: node of kind " + e.Node.Kind().String() + " is already bound to a different environment"
}

// EnvironmentConfig resolves the two Open Questions the source spec left
// to the implementer (§9), typically loaded from YAML alongside a front-end's
// own configuration.
type EnvironmentConfig struct {
	// TreatUnionsLikeClassesForODR controls whether the ODR fast path
	// (§4.9.2, I5) applies to unions the same way it applies to classes.
	// The source's policy for unions is unclear; true is the conservative
	// default.
	TreatUnionsLikeClassesForODR bool `yaml:"treat_unions_like_classes_for_odr"`

	// EnableComparisonResultCache controls whether type_comparison_results_cache_
	// (§4.9.3) is populated. Disabling it only affects performance on deeply
	// recursive type graphs, never correctness.
	EnableComparisonResultCache bool `yaml:"enable_comparison_result_cache"`
}

// DefaultEnvironmentConfig returns the conservative defaults described in
// EnvironmentConfig's fields.
func DefaultEnvironmentConfig() EnvironmentConfig {
	return EnvironmentConfig{
		TreatUnionsLikeClassesForODR: true,
		EnableComparisonResultCache:  true,
	}
}

// Metrics instruments the Canonicalization & Equality Engine (§4.9) so
// that the optimization's hot path is observable without test-only hooks
// (scenario S1: "observable by instrumenting the structural path").
type Metrics struct {
	ODRFastPathHits          prometheus.Counter
	StructuralComparisons    prometheus.Counter
	PropagationsConfirmed    prometheus.Counter
	PropagationsCancelled    prometheus.Counter
	ComparisonCacheHits      prometheus.Counter
	CanonicalizationsOverall prometheus.Counter
}

// NewMetrics creates and registers a Metrics against reg. reg may be nil,
// in which case the counters are created but never exposed to a scrape
// endpoint; this matches prometheus.NewRegistry()'s own nil-safety idiom.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ODRFastPathHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abi_ir_odr_fast_path_hits_total",
			Help: "Canonicalization candidates accepted via the ODR fast path without structural comparison.",
		}),
		StructuralComparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abi_ir_structural_comparisons_total",
			Help: "Structural equals() calls performed by the canonicalization engine.",
		}),
		PropagationsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abi_ir_propagations_confirmed_total",
			Help: "Speculative canonical-type propagations confirmed after their recursive root completed.",
		}),
		PropagationsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abi_ir_propagations_cancelled_total",
			Help: "Speculative canonical-type propagations cancelled after their recursive root failed.",
		}),
		ComparisonCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abi_ir_comparison_cache_hits_total",
			Help: "Pairwise structural comparison results served from cache.",
		}),
		CanonicalizationsOverall: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abi_ir_canonicalizations_total",
			Help: "Calls to canonicalize() on a type with an Environment and no canonical type yet; calls that return an already-assigned canonical type are not counted.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.ODRFastPathHits,
			m.StructuralComparisons,
			m.PropagationsConfirmed,
			m.PropagationsCancelled,
			m.ComparisonCacheHits,
			m.CanonicalizationsOverall,
		)
	}
	return m
}

// comparisonScratch holds the mutable state the Canonicalization & Equality
// Engine uses while a structural comparison is in progress (§4.9.3). It is
// owned by the Environment because it is shared across every comparison
// performed against types that live in that Environment.
type comparisonScratch struct {
	// leftOperands and rightOperands are parallel stacks of the composite
	// types currently being compared. They are parallel (rather than a
	// single stack of pairs) because the left and right recursions can be
	// at different depths when one side reuses a canonical type and the
	// other does not (see original_source/src/abg-ir-priv.h).
	leftOperands  []Type
	rightOperands []Type

	// nonConfirmedPropagated tracks types whose canonical type was
	// speculatively propagated but not yet confirmed.
	nonConfirmedPropagated map[Type]struct{}

	// recursiveTypes tracks composite types currently known to be
	// recursive (i.e., currently mid-comparison higher up the stack).
	recursiveTypes map[Type]struct{}

	// results caches pairwise structural comparison results. Populated
	// only when EnvironmentConfig.EnableComparisonResultCache is true,
	// and only for pairs with no unresolved recursive dependency.
	results map[typePair]bool
}

type typePair struct {
	a, b Type
}

func newComparisonScratch() *comparisonScratch {
	return &comparisonScratch{
		nonConfirmedPropagated: make(map[Type]struct{}),
		recursiveTypes:         make(map[Type]struct{}),
		results:                make(map[typePair]bool),
	}
}

// Environment is the process-wide (or, in tests, per-session) owner of the
// interning pool, the canonical-types registry, and the comparison
// scratch state described in §4.1. An Environment must not be shared
// across goroutines without external synchronization (§5).
type Environment struct {
	id uuid.UUID

	config EnvironmentConfig
	logger *slog.Logger
	metrics *Metrics

	strings map[string]string

	// canonicalTypes maps a type's internal pretty-representation to the
	// vector of canonical candidates sharing that representation,
	// iterated from the end during canonicalize() (§4.9.2).
	canonicalTypes map[string][]Type

	voidType     Type
	variadicType Type

	locations *locationTable

	scratch *comparisonScratch

	canonicalizationDone bool
}

// EnvironmentOption configures a new Environment.
type EnvironmentOption func(*Environment)

// WithConfig sets the Environment's EnvironmentConfig.
func WithConfig(cfg EnvironmentConfig) EnvironmentOption {
	return func(e *Environment) { e.config = cfg }
}

// WithLogger sets the Environment's logger. The default is
// logging.DiscardLogger().
func WithLogger(logger *slog.Logger) EnvironmentOption {
	return func(e *Environment) { e.logger = logger }
}

// WithMetrics attaches a Metrics instance used to instrument the
// canonicalization engine. The default is a Metrics registered against no
// registerer (counters exist but aren't scraped).
func WithMetrics(m *Metrics) EnvironmentOption {
	return func(e *Environment) { e.metrics = m }
}

// NewEnvironment creates a new, empty Environment.
func NewEnvironment(opts ...EnvironmentOption) *Environment {
	e := &Environment{
		id:             uuid.New(),
		config:         DefaultEnvironmentConfig(),
		logger:         logging.DiscardLogger(),
		strings:        make(map[string]string),
		canonicalTypes: make(map[string][]Type),
		scratch:        newComparisonScratch(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics(nil)
	}
	return e
}

// ID returns the Environment's session id. The package itself emits no
// log records, so the id is not attached to any log output here.
func (e *Environment) ID() uuid.UUID { return e.id }

// Config returns the Environment's EnvironmentConfig.
func (e *Environment) Config() EnvironmentConfig { return e.config }

// intern returns a canonical copy of s, so that repeated identical names
// share a single backing string across the Environment's lifetime.
func (e *Environment) intern(s string) string {
	if v, ok := e.strings[s]; ok {
		return v
	}
	e.strings[s] = s
	return s
}

// GetVoidType lazily constructs and returns the Environment's void type
// sentinel. The returned Type has stable identity across the session
// (§4.1).
func (e *Environment) GetVoidType() Type {
	if e.voidType == nil {
		e.voidType = NewScalarType(e, IntegralDescriptor{Kind: ScalarVoid})
	}
	return e.voidType
}

// GetVariadicParameterType lazily constructs and returns the Environment's
// variadic-parameter sentinel type, used as the type of a Function's
// trailing "..." parameter marker.
func (e *Environment) GetVariadicParameterType() Type {
	if e.variadicType == nil {
		e.variadicType = NewScalarType(e, IntegralDescriptor{Kind: ScalarVariadic})
	}
	return e.variadicType
}

// CanonicalTypesMap provides mutable access to the repr -> candidates
// index used by canonicalize() (§4.1, §4.9.2). Exposed for front-ends
// that need to pre-seed or inspect it directly; most callers should use
// Canonicalize instead.
func (e *Environment) CanonicalTypesMap() map[string][]Type {
	return e.canonicalTypes
}

// CanonicalizationIsDone reports whether canonicalization has been marked
// complete for this Environment (advisory only; nothing prevents further
// mutation).
func (e *Environment) CanonicalizationIsDone() bool { return e.canonicalizationDone }

// SetCanonicalizationIsDone sets the advisory "canonicalization done" flag.
func (e *Environment) SetCanonicalizationIsDone(done bool) { e.canonicalizationDone = done }

// ForceConfirmPropagations marks every type still recorded in
// nonConfirmedPropagated as confirmed, regardless of its remaining
// recursive dependencies. Per §4.9.4: "when a TranslationUnit finishes
// canonicalization, any remaining entries in
// types_with_non_confirmed_propagated_ct_ must be force-confirmed."
// TranslationUnit.Finalize calls this.
func (e *Environment) ForceConfirmPropagations() {
	for dep := range e.scratch.nonConfirmedPropagated {
		if ps, ok := dep.(propagationState); ok {
			ps.setPropagationConfirmed(true)
		}
		if rd, ok := dep.(recursiveDependent); ok {
			rd.clearRecursiveDeps()
		}
		if e.metrics != nil {
			e.metrics.PropagationsConfirmed.Inc()
		}
	}
	e.scratch.nonConfirmedPropagated = make(map[Type]struct{})
}
