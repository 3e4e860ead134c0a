package patch

import "strings"

// Spec identifies a binding by module name and dot-separated attribute
// path. It is a plain comparable value; resolution happens against an
// explicit registry at call time, so a Spec can be resolved before and
// after patching to observe the live value.
type Spec struct {
	ModuleName    string
	QualifiedName string
}

// Name returns the final path segment.
func (s Spec) Name() string {
	parts := s.segments()
	return parts[len(parts)-1]
}

// ParentQualifiedName returns the path up to the final segment, and false
// if the path is a single top-level segment.
func (s Spec) ParentQualifiedName() (string, bool) {
	parts := s.segments()
	if len(parts) < 2 {
		return "", false
	}
	return strings.Join(parts[:len(parts)-1], "."), true
}

// Resolve walks the full path and returns the live value.
func (s Spec) Resolve(r *Registry) (any, error) {
	mod, err := r.Module(s.ModuleName)
	if err != nil {
		return nil, err
	}
	return walk(mod, s.segments())
}

// ResolveParent returns the container holding the final segment: the
// module itself for a top-level path, otherwise the value at the parent
// path.
func (s Spec) ResolveParent(r *Registry) (any, error) {
	mod, err := r.Module(s.ModuleName)
	if err != nil {
		return nil, err
	}
	parts := s.segments()
	return walk(mod, parts[:len(parts)-1])
}

// String renders the spec as "module:dotted.path".
func (s Spec) String() string {
	return s.ModuleName + ":" + s.QualifiedName
}

func (s Spec) segments() []string {
	return strings.Split(s.QualifiedName, ".")
}
