package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/tratzlaff/sbomgen/pkg/dag"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
	"github.com/tratzlaff/sbomgen/pkg/sbom"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the group, package URL and declared license to package
	// labels. When false, only name and version are shown.
	Detailed bool
}

// ToDOT converts the element graph of doc to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// The document node is drawn as a note and its DESCRIBES edge is dashed.
// Relationships that close a cycle are drawn in red.
func ToDOT(doc *sbom.Document, opts Options) string {
	g := doc.Graph()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(doc, *n, opts.Detailed), ", "))
	}

	back := make(map[[2]string]bool)
	for _, e := range g.BackEdges() {
		back[e] = true
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if e.Kind == string(sbom.Describes) {
			attrs = append(attrs, "style=dashed")
		}
		if back[[2]string{e.From, e.To}] {
			attrs = append(attrs, "color=red")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(doc *sbom.Document, n dag.Node, detailed bool) []string {
	if n.IsDocument() {
		return []string{fmt.Sprintf("label=%q", doc.Name), "shape=note", "fillcolor=lightgrey"}
	}
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(doc, n.ID, detailed))}
	if root := doc.Root(); root != nil && root.ID == n.ID {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

func fmtLabel(doc *sbom.Document, id string, detailed bool) string {
	p, ok := doc.Package(id)
	if !ok {
		return id
	}
	label := p.Name + "\n" + p.VersionInfo
	if !detailed {
		return label
	}
	parts := []string{label, p.Coordinate.Group}
	if p.PURL != "" {
		parts = append(parts, p.PURL)
	}
	if p.LicenseDeclared != "" {
		parts = append(parts, p.LicenseDeclared)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "render svg")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the point-based size Graphviz emits with a
// viewBox rooted at the origin, so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
