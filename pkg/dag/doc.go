// Package dag provides the insertion-ordered directed graph that backs an
// SBOM document.
//
// # Overview
//
// An SBOM is a set of elements joined by typed relationships. This package
// stores those elements as nodes and the relationships as typed edges. Two
// properties matter more than anything else:
//
//   - Determinism: [Graph.Nodes], [Graph.Edges], [Graph.Children] and
//     [Graph.Sources] return elements in insertion order, never map order.
//   - Edge identity: an edge is identified by its (From, To, Kind) triple.
//     [Graph.AddEdge] reports false for a triple it has already seen.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	_ = g.AddNode(dag.Node{ID: "SPDXRef-DOCUMENT", Kind: dag.NodeKindDocument})
//	_ = g.AddNode(dag.Node{ID: "com.acme:app:1.0"})
//	_, _ = g.AddEdge(dag.Edge{From: "SPDXRef-DOCUMENT", To: "com.acme:app:1.0", Kind: "DESCRIBES"})
//
// # Cycles
//
// Resolved dependency graphs are conventionally acyclic, but input can be
// malformed. The Graph accepts cycles and self-loops; [Graph.BackEdges]
// lists the edges that close them so callers can warn about them.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Each SBOM document owns
// its own Graph for the lifetime of one generation run.
package dag
