package deps

import (
	"fmt"
	"strings"
)

// Coordinate identifies a module regardless of how many times it is reached
// in a dependency tree. It is a comparable value type: two nodes with equal
// coordinates denote the same real-world package.
type Coordinate struct {
	Group   string // Maven group, registry name for ecosystems without groups
	Name    string // Artifact / package name
	Version string // Resolved version
}

// String renders the coordinate as "group:name:version" without escaping.
// Use it for log and error messages only; element identifiers are derived
// by the sbom package.
func (c Coordinate) String() string {
	return c.Group + ":" + c.Name + ":" + c.Version
}

// IsZero reports whether all fields are empty.
func (c Coordinate) IsZero() bool { return c == Coordinate{} }

// Merge returns c with every empty field filled from fallback.
func (c Coordinate) Merge(fallback Coordinate) Coordinate {
	if c.Group == "" {
		c.Group = fallback.Group
	}
	if c.Name == "" {
		c.Name = fallback.Name
	}
	if c.Version == "" {
		c.Version = fallback.Version
	}
	return c
}

// ParseCoordinate parses "group:name:version". Exactly three non-empty
// colon-separated parts are required.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("coordinate %q: want group:name:version", s)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, fmt.Errorf("coordinate %q: empty component", s)
		}
	}
	return Coordinate{Group: parts[0], Name: parts[1], Version: parts[2]}, nil
}

// Node is one position in a resolved dependency graph, as reported by a
// resolver. The same coordinate may appear at several positions (a diamond
// dependency) as distinct *Node values, and malformed input may even link
// a node back to one of its ancestors.
type Node struct {
	Coordinate
	Children []*Node
}

// NewNode creates a node with the given coordinate and children.
func NewNode(group, name, version string, children ...*Node) *Node {
	return &Node{
		Coordinate: Coordinate{Group: group, Name: name, Version: version},
		Children:   children,
	}
}

// Add appends children to n and returns n, for building trees inline.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Walk visits every node position reachable from root in depth-first
// pre-order, passing the depth of the first path that reached it. Each
// *Node is visited once even if it is shared or part of a cycle. Returning
// false from fn skips the node's children.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	if root == nil {
		return
	}
	type item struct {
		n     *Node
		depth int
	}
	seen := make(map[*Node]bool)
	stack := []item{{root, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.n == nil || seen[it.n] {
			continue
		}
		seen[it.n] = true
		if !fn(it.n, it.depth) {
			continue
		}
		for i := len(it.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.n.Children[i], it.depth + 1})
		}
	}
}

// Stats summarizes the shape of a resolved dependency graph.
type Stats struct {
	Positions   int // Distinct *Node values reachable from the root
	Coordinates int // Distinct coordinates among them
	MaxDepth    int // Deepest first-visit depth
}

// Collapsed returns how many positions share a coordinate with an earlier
// one, i.e. how many tree positions an SBOM merges away.
func (s Stats) Collapsed() int { return s.Positions - s.Coordinates }

// Summarize computes Stats for the graph rooted at root.
func Summarize(root *Node) Stats {
	var s Stats
	coords := make(map[Coordinate]bool)
	Walk(root, func(n *Node, depth int) bool {
		s.Positions++
		coords[n.Coordinate] = true
		s.MaxDepth = max(s.MaxDepth, depth)
		return true
	})
	s.Coordinates = len(coords)
	return s
}

// Options configures manifest parsing.
type Options struct {
	// Configuration selects a Gradle configuration section in a dependency
	// report (default: runtimeClasspath).
	Configuration string
	// IncludeDev includes development-only dependencies where the manifest
	// marks them (poetry groups, Maven test/provided scopes).
	IncludeDev bool
	// Project is the coordinate of the project being described. Readers use
	// it for entries that name sibling projects without a full coordinate,
	// such as Gradle "project :sub" lines.
	Project Coordinate
	// Logger receives warnings about skipped entries (optional).
	Logger func(string, ...any)
}

// DefaultConfiguration is the Gradle configuration read when none is set.
const DefaultConfiguration = "runtimeClasspath"

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Configuration == "" {
		opts.Configuration = DefaultConfiguration
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
