package descriptor

// Merged is the flattened result of extends resolution: one descriptor
// with no remaining extends, where child entries replaced ancestor
// entries key by key.
//
// Capability maps still contain explicitly disabled entries. Callers
// consuming active configuration go through Active; callers reporting
// state see the disabled names too.
type Merged struct {
	Descriptor

	// Root is the project root the descriptor was resolved for.
	Root string

	// HasLocalOverrides records that ai.local.json participated in the
	// merge, for downstream reporting.
	HasLocalOverrides bool
}

// apply merges src into d, child-wins per key. A key already disabled
// in d stays disabled no matter what src defines: false is sticky for
// the whole resolution. src's extends is deliberately ignored; the
// resolver flattens chains before merging.
func (d *Descriptor) apply(src *Descriptor) {
	d.Skills = mergeEntries(d.Skills, src.Skills)
	d.Rules = mergeEntries(d.Rules, src.Rules)
	d.Prompts = mergeEntries(d.Prompts, src.Prompts)
	d.MCP = mergeEntries(d.MCP, src.MCP)
	d.Hooks = mergeEntries(d.Hooks, src.Hooks)
}

// mergeEntries overlays src onto dst. A replacement fully swaps the
// value for a key (no field-level deep merge); a dst key holding false
// is never resurrected.
func mergeEntries(dst, src map[string]Entry) map[string]Entry {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]Entry, len(src))
	}
	for name, entry := range src {
		if existing, ok := dst[name]; ok && existing.IsDisabled() {
			continue
		}
		dst[name] = entry
	}
	return dst
}
