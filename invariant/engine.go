package invariant

// Engine holds a heterogeneous set of invariants and evaluates all of
// them against a single Context on each call.
type Engine struct {
	invariants []Invariant
	last       []Result
}

// NewEngine returns an empty Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// AddInvariant registers inv to be checked on every future Evaluate call.
func (e *Engine) AddInvariant(inv Invariant) {
	e.invariants = append(e.invariants, inv)
}

// Evaluate runs every registered invariant against ctx and returns the
// results in registration order. The results are retained so
// AllSatisfied and Violations reflect the most recent call.
func (e *Engine) Evaluate(ctx Context) []Result {
	results := make([]Result, 0, len(e.invariants))
	for _, inv := range e.invariants {
		results = append(results, inv.Evaluate(ctx))
	}
	e.last = results
	return results
}

// AllSatisfied reports whether every invariant passed on the most recent
// Evaluate call. An Engine with no invariants, or one never evaluated,
// is vacuously satisfied.
func (e *Engine) AllSatisfied() bool {
	for _, r := range e.last {
		if !r.Satisfied {
			return false
		}
	}
	return true
}

// Violations returns the subset of the most recent Evaluate results that
// failed.
func (e *Engine) Violations() []Result {
	var out []Result
	for _, r := range e.last {
		if !r.Satisfied {
			out = append(out, r)
		}
	}
	return out
}
