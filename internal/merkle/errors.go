package merkle

import "errors"

// ErrInvalidProof is returned when a supplied proof does not fold to the
// current root for the given leaf.
var ErrInvalidProof = errors.New("merkle: invalid proof")
