package ports

import "go.trai.ch/zr/internal/core/domain"

// ConditionEvaluator evaluates a task or stage's condition expression
// against the current runtime state and process environment.
//
// Implementations must fail open: any parse or evaluation error is
// reported through err, and callers treat a non-nil err as "true" per
// the documented fail-open contract, logging a warning rather than
// failing the run.
//
//go:generate go run go.uber.org/mock/mockgen -source=condition.go -destination=mocks/mock_condition.go -package=mocks
type ConditionEvaluator interface {
	Evaluate(expr string, env map[string]string, state *domain.RuntimeState) (bool, error)
}
