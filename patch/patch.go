package patch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Patch pairs a Spec with the original value captured when the patch was
// built. Install and Restore are pure functions of that pair plus the live
// registry.
type Patch struct {
	original any
	spec     Spec
	reg      *Registry
}

// FromSpec builds a patch for the binding the spec identifies, capturing
// its current value as the original. A nil registry means DefaultRegistry.
func FromSpec(reg *Registry, spec Spec) (Patch, error) {
	if reg == nil {
		reg = DefaultRegistry
	}
	original, err := spec.Resolve(reg)
	if err != nil {
		return Patch{}, err
	}
	return Patch{original: original, spec: spec, reg: reg}, nil
}

// FromTarget builds a patch from a live patchable handle.
func FromTarget(reg *Registry, target Target) (Patch, error) {
	return FromSpec(reg, target.PatchSpec())
}

// fromAny accepts either a Spec or a Target.
func fromAny(reg *Registry, v any) (Patch, error) {
	switch t := v.(type) {
	case Spec:
		return FromSpec(reg, t)
	case Target:
		return FromTarget(reg, t)
	default:
		return Patch{}, fmt.Errorf("%w: got %T", ErrInvalidTarget, v)
	}
}

// Spec returns the binding the patch targets.
func (p Patch) Spec() Spec { return p.spec }

// Original returns the value captured at construction.
func (p Patch) Original() any { return p.original }

// Install binds the targeted attribute to value: the final path segment is
// assigned on the module itself for a top-level path, otherwise on the
// object at the parent path.
func (p Patch) Install(value any) error {
	parent, err := p.spec.ResolveParent(p.reg)
	if err != nil {
		return err
	}
	return setAttr(parent, p.spec.Name(), value)
}

// Restore reinstalls the original value.
func (p Patch) Restore() error {
	return p.Install(p.original)
}

// Set is a named collection of patches installed and restored as one unit.
// The collection is fixed at construction; there is no way to add or
// replace patches afterward.
type Set struct {
	reg     *Registry
	patches map[string]Patch
}

// NewSet builds one patch per named target, capturing every original value
// up front. Each target is a Spec or a Target. A nil registry means
// DefaultRegistry.
func NewSet(reg *Registry, targets map[string]any) (*Set, error) {
	if reg == nil {
		reg = DefaultRegistry
	}
	patches := make(map[string]Patch, len(targets))
	for name, target := range targets {
		p, err := fromAny(reg, target)
		if err != nil {
			return nil, fmt.Errorf("patch %q: %w", name, err)
		}
		patches[name] = p
	}
	return &Set{reg: reg, patches: patches}, nil
}

// Names returns the configured patch names, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.patches))
	for name := range s.patches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Original returns the captured original value of the named patch.
func (s *Set) Original(name string) (any, error) {
	p, ok := s.patches[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoPatch, name)
	}
	return p.Original(), nil
}

// Install binds every configured patch to its replacement. The supplied
// name set must equal the configured name set exactly: missing names fail
// first, then unexpected names, each enumerated sorted, and either
// mismatch is rejected before any attribute is touched.
func (s *Set) Install(values map[string]any) error {
	var missing []string
	for name := range s.patches {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingPatches, strings.Join(missing, ", "))
	}

	var unexpected []string
	for name := range values {
		if _, ok := s.patches[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return fmt.Errorf("%w: %s", ErrUnexpectedPatches, strings.Join(unexpected, ", "))
	}

	for _, name := range s.Names() {
		if err := s.patches[name].Install(values[name]); err != nil {
			return fmt.Errorf("patch %q: %w", name, err)
		}
	}
	return nil
}

// Restore reinstalls every captured original, regardless of current live
// state. All patches are attempted; failures are joined.
func (s *Set) Restore() error {
	var errs []error
	for _, name := range s.Names() {
		if err := s.patches[name].Restore(); err != nil {
			errs = append(errs, fmt.Errorf("patch %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
