// Package rules holds the prioritized admissibility pipeline that decides
// whether a booking or queue join may proceed. Rules only read; all writes
// happen afterwards inside the admission transaction.
package rules

import (
	"context"
	"sort"
)

// Result is a single rule verdict. Failures carry a stable machine code
// and a human message; Metadata is optional diagnostic payload (e.g.
// current count vs. limit). Critical failures make further checks
// meaningless and stop even RunAll.
type Result struct {
	Valid    bool
	Code     string
	Message  string
	Critical bool
	Metadata map[string]any
}

func Pass() Result {
	return Result{Valid: true}
}

func Fail(code, message string) Result {
	return Result{Code: code, Message: message}
}

func FailCritical(code, message string) Result {
	return Result{Code: code, Message: message, Critical: true}
}

func FailWithMeta(code, message string, meta map[string]any) Result {
	return Result{Code: code, Message: message, Metadata: meta}
}

// Rule is a single side-effect-free admissibility check over a closed
// context type.
type Rule[C any] interface {
	Name() string
	Priority() int
	Validate(ctx context.Context, c C) (Result, error)
}

// Engine runs rules in ascending priority order, ties broken by
// registration order. Engines are rebuilt per request; they hold no
// cross-request state.
type Engine[C any] struct {
	rules []Rule[C]
}

func NewEngine[C any]() *Engine[C] {
	return &Engine[C]{}
}

func (e *Engine[C]) Register(r Rule[C]) {
	e.rules = append(e.rules, r)
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].Priority() < e.rules[j].Priority()
	})
}

// RunUntilFailure executes rules in order and returns the first failing
// result, or nil when every rule passes. The error return is reserved for
// collaborator-store failures, not rule verdicts.
func (e *Engine[C]) RunUntilFailure(ctx context.Context, c C) (*Result, error) {
	for _, r := range e.rules {
		res, err := r.Validate(ctx, c)
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			return &res, nil
		}
	}
	return nil, nil
}

// RunAll executes every rule and collects all results, stopping early only
// when a failing result is critical.
func (e *Engine[C]) RunAll(ctx context.Context, c C) ([]Result, error) {
	results := make([]Result, 0, len(e.rules))
	for _, r := range e.rules {
		res, err := r.Validate(ctx, c)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
		if !res.Valid && res.Critical {
			break
		}
	}
	return results, nil
}
