package ptsim

import "lintim.dev/ptsim/simerrors"

// Err* are root-package aliases for the simerrors.Kind values spec.md
// section 7 defines, so callers of this package (notably cmd/ptsim) can
// write ptsim.ErrUnreachable instead of reaching into the leaf package
// directly. The Kind values themselves are defined once, in simerrors,
// which every leaf package (network, path, delay, ...) already depends
// on without risking an import cycle back into this root package; see
// DESIGN.md's "simerrors" entry for why the taxonomy isn't declared here
// directly.
const (
	ErrInvalidInputFile   = simerrors.InvalidInputFile
	ErrUnknownConfig      = simerrors.UnknownConfig
	ErrInvalidPath        = simerrors.InvalidPath
	ErrUnreachable        = simerrors.Unreachable
	ErrInvariantViolation = simerrors.InvariantViolation
)

// IsKind reports whether err is a simerrors.Error of the given kind.
func IsKind(err error, kind simerrors.Kind) bool {
	return simerrors.Is(err, kind)
}
