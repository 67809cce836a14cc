// Package apply drives the full compilation pipeline: resolve the
// project descriptor, materialize its entries, plan per-editor file
// changes, and write them.
//
// Planning and writing are separate phases. Strategies only ever
// return the changes a write would make, so a dry run is the same
// pipeline stopped before the write phase. Real runs snapshot every
// file about to be overwritten, write changes atomically, and record
// user-scope artifacts in the global tracking registry.
package apply
