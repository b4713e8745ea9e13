package io

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

// WriteTree encodes t as indented JSON.
//
// The first occurrence of each coordinate (in depth-first order) is written
// as a full definition; later occurrences become references. The output is
// therefore finite for any input, including cyclic ones, and [ReadTree]
// reads it back to an equivalent graph. Coordinates containing ':' cannot be
// referenced unambiguously and are rejected with an INVALID_INPUT error.
func WriteTree(t *Tree, w io.Writer) error {
	if t == nil || t.Root == nil {
		return errs.New(errs.ErrCodeInvalidInput, "dependency tree has no root")
	}

	written := make(map[deps.Coordinate]bool)
	var bad *deps.Coordinate
	var encode func(n *deps.Node) *treeNode
	encode = func(n *deps.Node) *treeNode {
		if bad == nil && strings.Contains(n.Group+n.Name+n.Version, ":") {
			bad = &n.Coordinate
		}
		if written[n.Coordinate] {
			return &treeNode{Ref: n.Coordinate.String()}
		}
		written[n.Coordinate] = true
		out := &treeNode{Group: n.Group, Name: n.Name, Version: n.Version}
		for _, c := range n.Children {
			if c != nil {
				out.Children = append(out.Children, encode(c))
			}
		}
		return out
	}

	root := encode(t.Root)
	if bad != nil {
		return errs.New(errs.ErrCodeInvalidInput, "coordinate %q contains ':'", bad.String())
	}
	root.Ecosystem = t.Ecosystem

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(root); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode dependency tree")
	}
	return nil
}

// ExportTree writes t to a JSON file at path.
func ExportTree(t *Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteTree(t, f)
}
