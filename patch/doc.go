// Package patch locates named bindings by dotted path and swaps them out
// with guaranteed restoration.
//
// Bindings live in modules: named attribute containers held by a Registry.
// A Spec identifies one binding by (module name, dotted attribute path); a
// Patch pairs a Spec with the original value captured at construction; a
// Set installs and restores a named group of patches as one strictly
// validated unit.
//
// The Registry is explicit and injectable, so the same logic works against
// the process-wide DefaultRegistry or a private registry in tests. Path
// resolution walks an abstract Container interface; plain map[string]any
// values and exported struct-pointer fields are walked too, via a
// reflection adapter.
//
// # Quick Start
//
//	mod := patch.NewModule("mail")
//	mod.SetAttr("send", realSend)
//	patch.DefaultRegistry.Register(mod.Name(), mod)
//
//	set, err := patch.NewSet(nil, map[string]any{
//	    "send": patch.Spec{ModuleName: "mail", QualifiedName: "send"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := set.Install(map[string]any{"send": fakeSend}); err != nil {
//	    log.Fatal(err)
//	}
//	defer set.Restore()
package patch
