// Package editors defines the capability strategy framework that turns
// the unified configuration model into editor-native files.
//
// Each supported editor implements Editor: one strategy per capability
// (rules, mcp, skills, prompts, hooks). A strategy plans FileChanges
// against the current filesystem state; it never writes. Planning is
// idempotent: content already on disk in equivalent form produces no
// change, so a second run over the same model plans nothing.
//
// Editors with identical on-disk conventions share strategy
// implementations (the single-root-file rules layout serves several
// editors), but every editor variant remains independently selectable
// and behaviorally self-contained.
package editors
