package patch

import "errors"

// Sentinel errors for binding resolution and patching.
var (
	// ErrNoModule indicates a module name the registry cannot resolve.
	ErrNoModule = errors.New("patch: no such module")

	// ErrNoAttribute indicates a path segment that does not resolve.
	ErrNoAttribute = errors.New("patch: no such attribute")

	// ErrNotSettable indicates a resolved attribute that cannot be assigned.
	ErrNotSettable = errors.New("patch: attribute is not settable")

	// ErrInvalidTarget indicates a patch target that is neither a Spec nor
	// a Target.
	ErrInvalidTarget = errors.New("patch: target must be a Spec or Target")

	// ErrNoPatch indicates a patch name absent from a Set.
	ErrNoPatch = errors.New("patch: no such patch")

	// ErrMissingPatches indicates an Install call that omitted configured
	// names.
	ErrMissingPatches = errors.New("patch: missing patches")

	// ErrUnexpectedPatches indicates an Install call that supplied names
	// the Set was not configured with.
	ErrUnexpectedPatches = errors.New("patch: unexpected patches")
)
