// Package nodelink renders SBOM element graphs as node-link diagrams.
//
// # Overview
//
// Every package element becomes a box labeled with its name and version,
// connected by DEPENDS_ON arrows. The document itself appears as a note
// pointing at the root package with a dashed DESCRIBES edge. Relationships
// that close a dependency cycle are highlighted in red.
//
// # Usage
//
// Convert a built document to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools. The layout runs top-to-bottom (rankdir=TB).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
