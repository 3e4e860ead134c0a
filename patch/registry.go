package patch

import (
	"fmt"
	"reflect"
	"sync"
)

// Container is an attribute store that path resolution can walk. Modules
// implement it; any intermediate value on a dotted path may implement it
// too.
type Container interface {
	// Attr returns the named attribute, or an error wrapping ErrNoAttribute.
	Attr(name string) (any, error)

	// SetAttr binds the named attribute to value.
	SetAttr(name string, value any) error
}

// Target is anything that knows the Spec it can be patched through.
// Module.Ref hands out the canonical implementation.
type Target interface {
	PatchSpec() Spec
}

// Module is a named, concurrency-safe attribute container.
type Module struct {
	name string

	mu    sync.RWMutex
	attrs map[string]any
}

// NewModule creates an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{name: name, attrs: make(map[string]any)}
}

// Name returns the module's registry name.
func (m *Module) Name() string { return m.name }

// Attr implements Container.
func (m *Module) Attr(name string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in module %q", ErrNoAttribute, name, m.name)
	}
	return v, nil
}

// SetAttr implements Container.
func (m *Module) SetAttr(name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attrs[name] = value
	return nil
}

// Ref returns a patchable handle for the binding at the given dotted path
// inside this module.
func (m *Module) Ref(qualified string) Ref {
	return Ref{module: m.name, qualified: qualified}
}

// Ref is a (module, path) handle implementing Target.
type Ref struct {
	module    string
	qualified string
}

// PatchSpec implements Target.
func (r Ref) PatchSpec() Spec {
	return Spec{ModuleName: r.module, QualifiedName: r.qualified}
}

// Importer loads a module the registry has not seen yet.
type Importer func(name string) (Container, error)

// Registry maps module names to containers. It is the one genuinely
// global mutable resource of the package; resolution only reads it, and
// writes happen through explicit Register calls or paired
// Patch.Install/Restore.
type Registry struct {
	mu       sync.Mutex
	modules  map[string]Container
	importer Importer
}

// NewRegistry creates a registry. A nil importer means unknown module
// names fail with ErrNoModule instead of being loaded on first use.
func NewRegistry(importer Importer) *Registry {
	return &Registry{modules: make(map[string]Container), importer: importer}
}

// DefaultRegistry is the process-wide registry that default bindings and
// zero-config patch sets resolve against.
var DefaultRegistry = NewRegistry(nil)

// Register binds a module name to a container, replacing any previous
// binding.
func (r *Registry) Register(name string, c Container) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = c
}

// Module fetches the named module, invoking the importer on first
// reference and caching the result.
func (r *Registry) Module(name string) (Container, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.modules[name]; ok {
		return c, nil
	}
	if r.importer == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoModule, name)
	}
	c, err := r.importer(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrNoModule, name, err)
	}
	r.modules[name] = c
	return c, nil
}

// getAttr reads one attribute off an arbitrary container value.
func getAttr(obj any, name string) (any, error) {
	if c, ok := obj.(Container); ok {
		return c.Attr(name)
	}
	if m, ok := obj.(map[string]any); ok {
		v, ok := m[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoAttribute, name)
		}
		return v, nil
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		f := rv.FieldByName(name)
		if f.IsValid() && f.CanInterface() {
			return f.Interface(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q on %T", ErrNoAttribute, name, obj)
}

// setAttr writes one attribute on an arbitrary container value.
func setAttr(obj any, name string, value any) error {
	if c, ok := obj.(Container); ok {
		return c.SetAttr(name, value)
	}
	if m, ok := obj.(map[string]any); ok {
		m[name] = value
		return nil
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %q on %T", ErrNotSettable, name, obj)
	}
	f := rv.Elem().FieldByName(name)
	if !f.IsValid() || !f.CanSet() {
		return fmt.Errorf("%w: %q on %T", ErrNotSettable, name, obj)
	}
	if value == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	vv := reflect.ValueOf(value)
	if !vv.Type().AssignableTo(f.Type()) {
		return fmt.Errorf("%w: %q on %T: %s is not assignable to %s",
			ErrNotSettable, name, obj, vv.Type(), f.Type())
	}
	f.Set(vv)
	return nil
}

// walk resolves a chain of attribute segments starting from obj.
func walk(obj any, segments []string) (any, error) {
	for _, seg := range segments {
		v, err := getAttr(obj, seg)
		if err != nil {
			return nil, err
		}
		obj = v
	}
	return obj, nil
}
