package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMailRegistry(t *testing.T) (*Registry, *Module) {
	t.Helper()
	r := NewRegistry(nil)
	m := NewModule("mail")
	require.NoError(t, m.SetAttr("send", "real-send"))
	require.NoError(t, m.SetAttr("receive", "real-receive"))
	r.Register(m.Name(), m)
	return r, m
}

func TestPatch_FromSpec(t *testing.T) {
	r, m := newMailRegistry(t)
	spec := Spec{ModuleName: "mail", QualifiedName: "send"}

	p, err := FromSpec(r, spec)
	require.NoError(t, err)
	assert.Equal(t, "real-send", p.Original())
	assert.Equal(t, spec, p.Spec())

	require.NoError(t, p.Install("fake-send"))
	v, err := m.Attr("send")
	require.NoError(t, err)
	assert.Equal(t, "fake-send", v)

	require.NoError(t, p.Restore())
	v, err = m.Attr("send")
	require.NoError(t, err)
	assert.Equal(t, "real-send", v)
}

func TestPatch_FromTarget(t *testing.T) {
	r, m := newMailRegistry(t)

	p, err := FromTarget(r, m.Ref("send"))
	require.NoError(t, err)
	assert.Equal(t, "real-send", p.Original())
	assert.Equal(t, Spec{ModuleName: "mail", QualifiedName: "send"}, p.Spec())
}

func TestPatch_NestedPath(t *testing.T) {
	r := NewRegistry(nil)
	m := NewModule("app")
	cfg := &settings{Timeout: 30}
	require.NoError(t, m.SetAttr("settings", cfg))
	r.Register(m.Name(), m)

	p, err := FromSpec(r, Spec{ModuleName: "app", QualifiedName: "settings.Timeout"})
	require.NoError(t, err)
	assert.Equal(t, 30, p.Original())

	require.NoError(t, p.Install(60))
	assert.Equal(t, 60, cfg.Timeout)

	require.NoError(t, p.Restore())
	assert.Equal(t, 30, cfg.Timeout)
}

func TestPatch_UnresolvableSpec(t *testing.T) {
	r, _ := newMailRegistry(t)

	_, err := FromSpec(r, Spec{ModuleName: "mail", QualifiedName: "forward"})
	assert.ErrorIs(t, err, ErrNoAttribute)

	_, err = FromSpec(r, Spec{ModuleName: "postal", QualifiedName: "send"})
	assert.ErrorIs(t, err, ErrNoModule)
}

func TestSet_RoundTrip(t *testing.T) {
	r, m := newMailRegistry(t)

	set, err := NewSet(r, map[string]any{
		"send":    Spec{ModuleName: "mail", QualifiedName: "send"},
		"receive": m.Ref("receive"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"receive", "send"}, set.Names())

	require.NoError(t, set.Install(map[string]any{
		"send":    "fake-send",
		"receive": "fake-receive",
	}))

	v, _ := m.Attr("send")
	assert.Equal(t, "fake-send", v)
	v, _ = m.Attr("receive")
	assert.Equal(t, "fake-receive", v)

	// Captured originals stay visible while installed
	orig, err := set.Original("send")
	require.NoError(t, err)
	assert.Equal(t, "real-send", orig)

	_, err = set.Original("forward")
	assert.ErrorIs(t, err, ErrNoPatch)

	require.NoError(t, set.Restore())
	v, _ = m.Attr("send")
	assert.Equal(t, "real-send", v)
	v, _ = m.Attr("receive")
	assert.Equal(t, "real-receive", v)
}

func TestSet_StrictNameMatching(t *testing.T) {
	r, m := newMailRegistry(t)

	set, err := NewSet(r, map[string]any{
		"send":    Spec{ModuleName: "mail", QualifiedName: "send"},
		"receive": Spec{ModuleName: "mail", QualifiedName: "receive"},
	})
	require.NoError(t, err)

	// 1. Missing names, enumerated sorted
	err = set.Install(map[string]any{})
	require.ErrorIs(t, err, ErrMissingPatches)
	assert.Contains(t, err.Error(), "receive, send")

	// 2. Unexpected names, enumerated sorted
	err = set.Install(map[string]any{
		"send":    "s",
		"receive": "r",
		"zz":      1,
		"aa":      2,
	})
	require.ErrorIs(t, err, ErrUnexpectedPatches)
	assert.Contains(t, err.Error(), "aa, zz")

	// 3. Either mismatch is rejected before any attribute is touched
	v, _ := m.Attr("send")
	assert.Equal(t, "real-send", v)
	v, _ = m.Attr("receive")
	assert.Equal(t, "real-receive", v)
}

func TestSet_RestoreIgnoresLiveState(t *testing.T) {
	r, m := newMailRegistry(t)

	set, err := NewSet(r, map[string]any{
		"send": Spec{ModuleName: "mail", QualifiedName: "send"},
	})
	require.NoError(t, err)
	require.NoError(t, set.Install(map[string]any{"send": "fake-send"}))

	// Something else rebinds the attribute behind the set's back
	require.NoError(t, m.SetAttr("send", "rogue-send"))

	require.NoError(t, set.Restore())
	v, _ := m.Attr("send")
	assert.Equal(t, "real-send", v)
}

func TestSet_InvalidTarget(t *testing.T) {
	r, _ := newMailRegistry(t)

	_, err := NewSet(r, map[string]any{"send": 42})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
