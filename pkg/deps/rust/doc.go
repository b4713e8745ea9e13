// Package rust reads resolved Rust dependency graphs from Cargo.lock.
//
// # Overview
//
// Cargo.lock already contains the full transitive closure chosen by cargo's
// resolver, one [[package]] table per crate version:
//
//	[[package]]
//	name = "demo"
//	version = "0.1.0"
//	dependencies = ["serde", "log 0.4.20"]
//
// [CargoLock] turns each table into a [deps.Node] with group [Group]. A
// dependency string names a crate, optionally followed by a version and a
// source when several versions are locked.
//
// # Root Selection
//
// The root is the package named in the sibling Cargo.toml. Without one,
// the only local package (no source) that nothing depends on is used. If
// that is ambiguous, the root is left empty, the parser depends on every
// package that nothing else depends on, and callers fill the root
// coordinate from the project.
//
//	parser, _ := rust.Language.Manifest("Cargo.lock")
//	result, _ := parser.Parse("Cargo.lock", deps.Options{})
package rust
