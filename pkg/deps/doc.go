// Package deps models resolved dependency graphs and reads them from the
// reports that build tools produce.
//
// # Overview
//
// sbomgen does not resolve dependencies itself. A build tool's resolver has
// already chosen one version per module; this package turns its output into
// a tree of [Node] values, each carrying a [Coordinate] (group, name,
// version) and its children.
//
// The same coordinate may appear at several positions of that tree
// (diamond dependencies) as distinct *Node values. Gradle, for instance,
// prints a repeated subtree once and marks later occurrences with "(*)".
// Consumers must therefore treat the structure as a DAG keyed by
// coordinate, not as a tree keyed by position.
//
// # Manifest Parsing
//
// Each ecosystem has a subpackage exposing a [Language] with its
// [ManifestParser] implementations:
//
//   - [gradle]: output of "gradle dependencies" (text report)
//   - [rust]: Cargo.lock
//   - [python]: poetry.lock (root name from pyproject.toml)
//   - [java]: pom.xml (direct dependencies only)
//
// Use [DetectManifest] to pick a parser by filename:
//
//	parser, err := deps.DetectManifest(path, deps.AllParsers(gradle.Language, rust.Language)...)
//	result, err := parser.Parse(path, deps.Options{})
//	root := result.Root
//
// The JSON tree format lives in package [io].
//
// # Walking
//
// [Walk] visits each *Node once in depth-first pre-order, even if the input
// is self-referential. [Summarize] reports how many positions collapse onto
// shared coordinates.
//
// [gradle]: github.com/tratzlaff/sbomgen/pkg/deps/gradle
// [rust]: github.com/tratzlaff/sbomgen/pkg/deps/rust
// [python]: github.com/tratzlaff/sbomgen/pkg/deps/python
// [java]: github.com/tratzlaff/sbomgen/pkg/deps/java
// [io]: github.com/tratzlaff/sbomgen/pkg/io
package deps
