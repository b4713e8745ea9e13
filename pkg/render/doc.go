// Package render groups the visual renderers for SBOM documents.
//
// The [nodelink] subpackage draws the package graph of a document as a
// Graphviz node-link diagram: DOT text, or SVG through go-graphviz. The JSON
// serialization of a document is not a rendering and lives in package sbom.
package render
