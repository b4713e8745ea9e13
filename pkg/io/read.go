package io

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

type treeNode struct {
	Ecosystem string      `json:"ecosystem,omitempty"`
	Group     string      `json:"group,omitempty"`
	Name      string      `json:"name,omitempty"`
	Version   string      `json:"version,omitempty"`
	Ref       string      `json:"ref,omitempty"`
	Children  []*treeNode `json:"children,omitempty"`
}

func (t *treeNode) coordinate() deps.Coordinate {
	return deps.Coordinate{Group: t.Group, Name: t.Name, Version: t.Version}
}

// Tree is a decoded dependency tree.
type Tree struct {
	Root *deps.Node
	// Ecosystem is the package URL type declared on the root object, if any.
	Ecosystem string
}

// ReadTree decodes a JSON dependency tree from r.
//
// Every object is either a definition ({"group","name","version",
// "children"}) or a reference ({"ref": "group:name:version"}) to a
// definition elsewhere in the document. References resolve to the first
// definition of that coordinate and may point backwards or forwards, so the
// result can share nodes and even contain cycles.
//
// The root may leave coordinate fields empty; all other definitions must be
// complete. Definition fields must not contain ':' so that references stay
// unambiguous. ReadTree returns an INVALID_FORMAT error for malformed JSON,
// incomplete definitions, fields containing ':', objects mixing "ref" with
// other fields, malformed references, and references that match no
// definition. ReadTree does not close r.
func ReadTree(r io.Reader) (*Tree, error) {
	var root treeNode
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&root); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode dependency tree")
	}
	if root.Ref != "" {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "root must be a definition, not a reference")
	}

	b := &treeBuilder{defs: make(map[deps.Coordinate]*deps.Node)}
	out := b.define(&root, true)
	if b.err != nil {
		return nil, b.err
	}
	for _, p := range b.refs {
		c, err := deps.ParseCoordinate(p.ref)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "malformed reference")
		}
		target, ok := b.defs[c]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "reference %q matches no definition", p.ref)
		}
		p.parent.Children[p.index] = target
	}
	return &Tree{Root: out, Ecosystem: root.Ecosystem}, nil
}

type pendingRef struct {
	parent *deps.Node
	index  int
	ref    string
}

type treeBuilder struct {
	defs map[deps.Coordinate]*deps.Node
	refs []pendingRef
	err  error
}

// define converts a definition and its subtree. Reference children get a
// nil placeholder that is patched once all definitions are known.
func (b *treeBuilder) define(t *treeNode, isRoot bool) *deps.Node {
	if b.err != nil {
		return nil
	}
	c := t.coordinate()
	if !isRoot {
		if t.Ecosystem != "" {
			b.err = errs.New(errs.ErrCodeInvalidFormat, "%s: ecosystem is only allowed on the root", c)
			return nil
		}
		if c.Group == "" || c.Name == "" || c.Version == "" {
			b.err = errs.New(errs.ErrCodeInvalidFormat, "definition %q is incomplete: group, name and version are required", c)
			return nil
		}
	}
	if strings.Contains(c.Group+c.Name+c.Version, ":") {
		b.err = errs.New(errs.ErrCodeInvalidFormat, "definition %q: fields must not contain ':'", c)
		return nil
	}

	n := &deps.Node{Coordinate: c, Children: make([]*deps.Node, len(t.Children))}
	if !isRoot || !c.IsZero() {
		if _, dup := b.defs[c]; !dup {
			b.defs[c] = n
		}
	}

	for i, child := range t.Children {
		if child == nil {
			b.err = errs.New(errs.ErrCodeInvalidFormat, "%s: child %d is null", c, i)
			return nil
		}
		if child.Ref != "" {
			if child.Group != "" || child.Name != "" || child.Version != "" || len(child.Children) > 0 {
				b.err = errs.New(errs.ErrCodeInvalidFormat, "reference %q must not carry other fields", child.Ref)
				return nil
			}
			b.refs = append(b.refs, pendingRef{parent: n, index: i, ref: strings.TrimSpace(child.Ref)})
			continue
		}
		n.Children[i] = b.define(child, false)
	}
	return n
}

// ImportTree reads a JSON dependency tree from the file at path.
func ImportTree(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "dependency tree %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadTree(f)
}
