// Package terr defines the error kinds every operation in this module can
// fail with (spec §7). Each kind is a sentinel that callers can compare
// against with errors.Is; operations wrap the sentinel with fmt.Errorf and
// %w so the failing path, index, or identity is preserved in the message.
package terr

import "errors"

var (
	// ErrInvalidPath covers an index out of bounds, a bare integer
	// applied to a multi-slot node, or an intermediate value that is
	// not a node during finger/lookup resolution.
	ErrInvalidPath = errors.New("ptree: invalid path")

	// ErrNodeNotFound is returned when identity-based path_of_node
	// search fails to locate the requested node under the given root.
	ErrNodeNotFound = errors.New("ptree: node not found")

	// ErrInvalidTransformApply is returned when a finger is translated
	// against a root not reachable through the back-pointer chain from
	// the finger's own root.
	ErrInvalidTransformApply = errors.New("ptree: no derivation path between roots")

	// ErrIdentityCollision is returned by the validation predicates
	// when two distinct nodes reachable from a single root carry the
	// same serial number.
	ErrIdentityCollision = errors.New("ptree: identity collision")
)
