package descriptor

import (
	"testing"
)

func TestApplyOverridePrecedence(t *testing.T) {
	merged := &Descriptor{}
	ancestor := &Descriptor{Rules: map[string]Entry{
		"x": NewEntry("v1"),
		"y": NewEntry("v2"),
	}}
	child := &Descriptor{Rules: map[string]Entry{
		"x": NewEntry("v3"),
	}}

	merged.apply(ancestor)
	merged.apply(child)

	if got, _ := merged.Rules["x"].Ref(); got != "v3" {
		t.Errorf("Rules[x] = %q, want child value v3", got)
	}
	if got, _ := merged.Rules["y"].Ref(); got != "v2" {
		t.Errorf("Rules[y] = %q, want inherited value v2", got)
	}
}

func TestApplyReplacesWholeValue(t *testing.T) {
	merged := &Descriptor{}
	merged.apply(&Descriptor{MCP: map[string]Entry{
		"github": NewEntry(map[string]any{"command": "npx", "args": []any{"-y", "@x/server-github"}}),
	}})
	merged.apply(&Descriptor{MCP: map[string]Entry{
		"github": NewEntry(map[string]any{"command": "docker"}),
	}})

	obj, ok := merged.MCP["github"].Object()
	if !ok {
		t.Fatalf("MCP[github] = %v, want object", merged.MCP["github"].Raw())
	}
	if obj["command"] != "docker" {
		t.Errorf("command = %v, want docker", obj["command"])
	}
	// Key replacement swaps the whole value: the ancestor's args must
	// not leak into the child's definition.
	if _, leaked := obj["args"]; leaked {
		t.Error("ancestor args survived a full-value replacement")
	}
}

func TestApplyDisableSemantics(t *testing.T) {
	merged := &Descriptor{}
	merged.apply(&Descriptor{Rules: map[string]Entry{
		"z": NewEntry("content"),
	}})
	merged.apply(&Descriptor{Rules: map[string]Entry{
		"z": Disabled(),
	}})

	entry, present := merged.Rules["z"]
	if !present {
		t.Fatal("Rules[z] missing from merged map, want present but disabled")
	}
	if !entry.IsDisabled() {
		t.Errorf("Rules[z] = %v, want disabled", entry.Raw())
	}
	if _, active := Active(merged.Rules)["z"]; active {
		t.Error("disabled rule appears in the active set")
	}
}

func TestApplyFalseIsSticky(t *testing.T) {
	merged := &Descriptor{}
	merged.apply(&Descriptor{Rules: map[string]Entry{"z": NewEntry("v1")}})
	merged.apply(&Descriptor{Rules: map[string]Entry{"z": Disabled()}})
	// A later child cannot resurrect a disabled key within the same
	// resolution.
	merged.apply(&Descriptor{Rules: map[string]Entry{"z": NewEntry("v2")}})

	if !merged.Rules["z"].IsDisabled() {
		t.Errorf("Rules[z] = %v, want disabled to stay sticky", merged.Rules["z"].Raw())
	}
}

func TestApplyUntouchedCapabilitiesSurvive(t *testing.T) {
	merged := &Descriptor{}
	merged.apply(&Descriptor{
		Skills: map[string]Entry{"reviewer": NewEntry("./skills/reviewer")},
		Rules:  map[string]Entry{"security": NewEntry("./rules/security.md")},
	})
	merged.apply(&Descriptor{
		Prompts: map[string]Entry{"standup": NewEntry("./prompts/standup.md")},
	})

	if len(merged.Skills) != 1 || len(merged.Rules) != 1 || len(merged.Prompts) != 1 {
		t.Errorf("merged = %d skills, %d rules, %d prompts; want 1 of each",
			len(merged.Skills), len(merged.Rules), len(merged.Prompts))
	}
}
