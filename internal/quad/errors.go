package quad

import (
	"errors"
	"fmt"
)

// Domain errors for quadrature operations.
var (
	// ErrInvalidInterval indicates a >= b or a non-finite bound.
	ErrInvalidInterval = errors.New("quad: invalid interval (need finite a < b)")

	// ErrInvalidPartition indicates a bin count below the rule's minimum or of the wrong parity.
	ErrInvalidPartition = errors.New("quad: invalid partition")

	// ErrMissingDerivativeData indicates a truncation estimate needs derivatives nobody supplied.
	ErrMissingDerivativeData = errors.New("quad: missing derivative data")

	// ErrIntegrandEvaluation indicates the integrand failed at a sample point.
	ErrIntegrandEvaluation = errors.New("quad: integrand evaluation failed")

	// ErrToleranceUnreachable indicates no step size meets the requested tolerance.
	ErrToleranceUnreachable = errors.New("quad: tolerance below achievable error floor")

	// ErrMaxDepth indicates adaptive refinement hit its recursion limit.
	ErrMaxDepth = errors.New("quad: adaptive refinement exceeded maximum depth")

	// ErrUnknownRule indicates a rule name that is not registered.
	ErrUnknownRule = errors.New("quad: unknown rule")
)

// EvalError wraps an integrand failure with the sample it happened at.
type EvalError struct {
	X       float64
	Index   int
	Wrapped error
}

func (e *EvalError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v at x=%g: %v", ErrIntegrandEvaluation, e.X, e.Wrapped)
	}
	return fmt.Sprintf("%v at node %d (x=%g): %v", ErrIntegrandEvaluation, e.Index, e.X, e.Wrapped)
}

// Is reports ErrIntegrandEvaluation so callers can match the kind without errors.As.
func (e *EvalError) Is(target error) bool {
	return target == ErrIntegrandEvaluation
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}

// PartitionError explains why a bin count was rejected.
type PartitionError struct {
	Rule   string
	Bins   int
	Reason string
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("%v: %s with N=%d: %s", ErrInvalidPartition, e.Rule, e.Bins, e.Reason)
}

func (e *PartitionError) Unwrap() error {
	return ErrInvalidPartition
}
