package patch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_Attrs(t *testing.T) {
	m := NewModule("mail")
	require.NoError(t, m.SetAttr("send", "v1"))

	v, err := m.Attr("send")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	require.NoError(t, m.SetAttr("send", "v2"))
	v, err = m.Attr("send")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	_, err = m.Attr("receive")
	assert.ErrorIs(t, err, ErrNoAttribute)
}

func TestRegistry_RegisterAndFetch(t *testing.T) {
	r := NewRegistry(nil)
	m := NewModule("mail")
	r.Register(m.Name(), m)

	got, err := r.Module("mail")
	require.NoError(t, err)
	assert.Equal(t, Container(m), got)

	_, err = r.Module("postal")
	assert.ErrorIs(t, err, ErrNoModule)
}

func TestRegistry_ImporterRunsOnce(t *testing.T) {
	var calls int
	r := NewRegistry(func(name string) (Container, error) {
		calls++
		m := NewModule(name)
		_ = m.SetAttr("marker", name)
		return m, nil
	})

	for i := 0; i < 3; i++ {
		got, err := r.Module("lazy")
		require.NoError(t, err)
		v, err := got.Attr("marker")
		require.NoError(t, err)
		assert.Equal(t, "lazy", v)
	}
	assert.Equal(t, 1, calls)
}

func TestRegistry_ImporterError(t *testing.T) {
	r := NewRegistry(func(name string) (Container, error) {
		return nil, errors.New("no such package")
	})
	_, err := r.Module("ghost")
	assert.ErrorIs(t, err, ErrNoModule)
	assert.Contains(t, err.Error(), "no such package")
}

type settings struct {
	Timeout int
	hidden  int
}

func TestAttributeWalk(t *testing.T) {
	cfg := &settings{Timeout: 30, hidden: 1}
	m := NewModule("app")
	require.NoError(t, m.SetAttr("config", map[string]any{"settings": cfg}))

	// Container → map → struct pointer field
	v, err := walk(m, []string{"config", "settings", "Timeout"})
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	_, err = walk(m, []string{"config", "missing"})
	assert.ErrorIs(t, err, ErrNoAttribute)

	_, err = walk(m, []string{"config", "settings", "Retries"})
	assert.ErrorIs(t, err, ErrNoAttribute)

	// Unexported fields are not reachable
	_, err = walk(m, []string{"config", "settings", "hidden"})
	assert.ErrorIs(t, err, ErrNoAttribute)
}

func TestSetAttrVariants(t *testing.T) {
	// 1. Map containers
	m := map[string]any{"limit": 1}
	require.NoError(t, setAttr(m, "limit", 2))
	assert.Equal(t, 2, m["limit"])

	// 2. Struct pointer fields
	cfg := &settings{Timeout: 30}
	require.NoError(t, setAttr(cfg, "Timeout", 60))
	assert.Equal(t, 60, cfg.Timeout)

	err := setAttr(cfg, "Timeout", "60")
	assert.ErrorIs(t, err, ErrNotSettable)

	err = setAttr(cfg, "hidden", 2)
	assert.ErrorIs(t, err, ErrNotSettable)

	// 3. Non-pointer structs and scalars cannot be assigned through
	err = setAttr(settings{}, "Timeout", 60)
	assert.ErrorIs(t, err, ErrNotSettable)

	err = setAttr(42, "Timeout", 60)
	assert.ErrorIs(t, err, ErrNotSettable)

	// 4. Nil zeroes a field
	type holder struct{ Fn func() }
	h := &holder{Fn: func() {}}
	require.NoError(t, setAttr(h, "Fn", nil))
	assert.Nil(t, h.Fn)
}

func TestSpec_Paths(t *testing.T) {
	s := Spec{ModuleName: "app", QualifiedName: "config.settings.Timeout"}
	assert.Equal(t, "Timeout", s.Name())
	parent, ok := s.ParentQualifiedName()
	require.True(t, ok)
	assert.Equal(t, "config.settings", parent)
	assert.Equal(t, "app:config.settings.Timeout", s.String())

	top := Spec{ModuleName: "app", QualifiedName: "config"}
	assert.Equal(t, "config", top.Name())
	_, ok = top.ParentQualifiedName()
	assert.False(t, ok)
}

func TestSpec_Resolve(t *testing.T) {
	r := NewRegistry(nil)
	m := NewModule("app")
	cfg := &settings{Timeout: 30}
	require.NoError(t, m.SetAttr("settings", cfg))
	r.Register(m.Name(), m)

	v, err := Spec{ModuleName: "app", QualifiedName: "settings.Timeout"}.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	parent, err := Spec{ModuleName: "app", QualifiedName: "settings.Timeout"}.ResolveParent(r)
	require.NoError(t, err)
	assert.Equal(t, any(cfg), parent)

	// A top-level path resolves its parent to the module itself
	parent, err = Spec{ModuleName: "app", QualifiedName: "settings"}.ResolveParent(r)
	require.NoError(t, err)
	assert.Equal(t, any(m), parent)

	_, err = Spec{ModuleName: "gone", QualifiedName: "settings"}.Resolve(r)
	assert.ErrorIs(t, err, ErrNoModule)
}
