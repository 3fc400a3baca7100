// Package errors provides structured error types for the boundstack library.
//
// Errors are categorized by Phase (which operation failed) and Kind (error category).
// The Error type carries a human-readable detail, the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhasePush, errors.KindInvalidArgument).
//		Value(len(buf)).
//		Detail("element is %d bytes, unit is %d", len(buf), unit).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Overflow(errors.PhasePush, cursor, unit, limit)
//	err := errors.Underflow(errors.PhasePop)
//
// All errors implement the standard error interface and support errors.Is/As.
// Match on the kind alone with the sentinels:
//
//	if errors.Is(err, errors.ErrOverflow) { ... }
package errors
