// Package guard implements the constructor-guard pattern used by domain
// objects and commands to ensure they are only created through their
// designated constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a zero-value
// guard is validated without a specific error to report.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes properly constructed objects from zero
// values. Embed it in a struct and initialize it with NewConstructorGuard
// inside the constructor; Validate then fails for any instance that was
// created by direct struct initialization.
//
// Example:
//
//	var ErrOrderNotConstructed = errors.New("Order must be created via NewOrder")
//
//	type Order struct {
//	    id    kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func (o Order) Validate() error {
//	    return o.guard.Validate(ErrOrderNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owning object as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the owning object was created through its
// constructor, otherwise the provided error (or
// ErrDefaultConstructorGuard when validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
