package sbom

import (
	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

// Build adds the dependency graph rooted at root to doc.
//
// Identity is by coordinate, not by tree position: every node whose
// coordinate has already been seen reuses the existing package element, and
// its children are not expanded again. The root gets a DESCRIBES
// relationship from the document; every other discovery adds a DEPENDS_ON
// relationship from the discovering parent, deduplicated by
// (from, to, type). Because a coordinate is expanded at most once, the
// traversal terminates on self-referential input.
//
// The walk is depth-first with an explicit stack, children in declared
// order, so the insertion order of elements is deterministic.
//
// All reachable coordinates are validated before doc is touched. Build
// returns an INVALID_COORDINATE error if any of them cannot be turned into
// an element identifier, and leaves doc unchanged in that case.
func Build(root *deps.Node, doc *Document) error {
	if root == nil {
		return errs.New(errs.ErrCodeInvalidInput, "dependency graph has no root")
	}
	if doc.sealed {
		return errs.New(errs.ErrCodeInternal, "document %s is sealed", doc.Name)
	}
	if doc.root != nil {
		return errs.New(errs.ErrCodeInternal, "document %s already describes %s", doc.Name, doc.root.ID)
	}

	ids, err := elementIDs(root)
	if err != nil {
		return err
	}

	type pending struct {
		node   *deps.Node
		parent *Package
	}
	stack := []pending{{node: root}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pkg, seen := doc.byCoord[cur.node.Coordinate]
		if !seen {
			pkg, err = doc.addPackage(cur.node.Coordinate, ids[cur.node.Coordinate])
			if err != nil {
				return err
			}
			for i := len(cur.node.Children) - 1; i >= 0; i-- {
				if child := cur.node.Children[i]; child != nil {
					stack = append(stack, pending{node: child, parent: pkg})
				}
			}
		}

		if cur.parent == nil {
			doc.root = pkg
			err = doc.relate(DocumentID, pkg.ID, Describes, "")
		} else {
			err = doc.relate(cur.parent.ID, pkg.ID, DependsOn, "")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// elementIDs computes the identifier of every reachable coordinate, failing
// on the first one that cannot be escaped.
func elementIDs(root *deps.Node) (map[deps.Coordinate]string, error) {
	ids := make(map[deps.Coordinate]string)
	var err error
	deps.Walk(root, func(n *deps.Node, _ int) bool {
		if err != nil {
			return false
		}
		if _, ok := ids[n.Coordinate]; ok {
			return true
		}
		var id string
		if id, err = ElementID(n.Coordinate); err != nil {
			return false
		}
		ids[n.Coordinate] = id
		return true
	})
	return ids, err
}
