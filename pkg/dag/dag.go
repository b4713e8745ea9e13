package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. Metadata maps are never nil - they are automatically initialized to
// empty maps when needed.
type Metadata map[string]any

// NodeKind distinguishes the document node from package nodes.
type NodeKind int

const (
	// NodeKindPackage represents a package element built from a module coordinate.
	NodeKindPackage NodeKind = iota
	// NodeKindDocument represents the document itself. It is the source of
	// DESCRIBES edges and is never rendered as a package.
	NodeKindDocument
)

// Node represents a vertex in the graph.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID   string   // Unique identifier
	Kind NodeKind // Package or document
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// IsDocument reports whether the node stands for the document rather than a package.
func (n Node) IsDocument() bool { return n.Kind == NodeKindDocument }

// Edge represents a typed, directed connection between two nodes.
// The triple (From, To, Kind) identifies an edge: adding the same triple
// twice is a no-op.
type Edge struct {
	From string   // Source node ID
	To   string   // Target node ID
	Kind string   // Edge type, e.g. "DEPENDS_ON"
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

type edgeKey struct {
	from, to, kind string
}

// Graph is a directed graph whose nodes and edges remember insertion order.
// Iteration methods ([Graph.Nodes], [Graph.Edges], [Graph.Children]) always
// return elements in the order they were first added, so anything projected
// from a Graph is deterministic.
//
// Graph does not require acyclicity: dependency data can be malformed, and
// cycles are reported by [Graph.BackEdges] rather than rejected.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    map[string]*Node
	order    []*Node
	edges    []Edge
	edgeSet  map[edgeKey]int     // edge triple -> index into edges
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	meta     Metadata
}

// New creates an empty Graph with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[edgeKey]int),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists. The node's Meta field is
// automatically initialized to an empty map if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes and reports
// whether it was new. An edge with the same (From, To, Kind) triple as an
// existing edge is not added again and AddEdge returns false with a nil error.
//
// Returns ErrUnknownSourceNode if the From node doesn't exist, or
// ErrUnknownTargetNode if the To node doesn't exist. Self-loops are allowed.
func (g *Graph) AddEdge(e Edge) (bool, error) {
	if _, ok := g.nodes[e.From]; !ok {
		return false, ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return false, ErrUnknownTargetNode
	}
	key := edgeKey{e.From, e.To, e.Kind}
	if _, exists := g.edgeSet[key]; exists {
		return false, nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	g.edgeSet[key] = len(g.edges)
	g.edges = append(g.edges, e)
	if !slices.Contains(g.outgoing[e.From], e.To) {
		g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
		g.incoming[e.To] = append(g.incoming[e.To], e.From)
	}
	return true, nil
}

// HasEdge reports whether an edge with the given triple exists.
func (g *Graph) HasEdge(from, to, kind string) bool {
	_, ok := g.edgeSet[edgeKey{from, to, kind}]
	return ok
}

// Nodes returns all nodes in insertion order. The returned slice is a copy,
// but it holds pointers to the actual node structs, so modifications to a
// node's Meta affect the graph.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs of nodes this node has edges to, regardless of
// edge kind, in insertion order. The returned slice should not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node, regardless
// of edge kind, in insertion order. The returned slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of distinct children of the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of distinct parents of the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false if not found.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, n := range g.order {
		if len(g.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
// These are typically low-level libraries with no dependencies.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, n := range g.order {
		if len(g.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate checks that every edge references existing nodes. It returns an
// error wrapping ErrInvalidEdgeEndpoint and naming the first offending edge.
//
// AddEdge never creates such edges, so a failure indicates that the graph
// was corrupted after construction.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return &EndpointError{Edge: e, ID: e.From}
		}
		if _, ok := g.nodes[e.To]; !ok {
			return &EndpointError{Edge: e, ID: e.To}
		}
	}
	return nil
}

// EndpointError reports an edge whose endpoint is not a node of the graph.
type EndpointError struct {
	Edge Edge   // The offending edge
	ID   string // The missing endpoint
}

func (e *EndpointError) Error() string {
	return ErrInvalidEdgeEndpoint.Error() + ": " + e.Edge.From + " -> " + e.Edge.To + " (" + e.Edge.Kind + "): unknown node " + e.ID
}

// Unwrap returns ErrInvalidEdgeEndpoint.
func (e *EndpointError) Unwrap() error { return ErrInvalidEdgeEndpoint }

// BackEdges returns the edges that close a cycle, found by an iterative
// depth-first search with white/gray/black coloring. The search starts from
// sources in insertion order, then from any node still unvisited, so the
// result is deterministic. An acyclic graph returns nil.
func (g *Graph) BackEdges() [][2]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var back [][2]string

	type frame struct {
		id   string
		next int
	}

	visit := func(start string) {
		stack := []frame{{id: start}}
		color[start] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.outgoing[top.id]
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				back = append(back, [2]string{top.id, child})
			}
		}
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	for _, n := range g.order {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return back
}

// HasCycle reports whether the graph contains a directed cycle.
func (g *Graph) HasCycle() bool { return len(g.BackEdges()) > 0 }

// NodeIDs extracts the ID from each node in a slice.
// Returns a new slice containing the IDs in the same order as the input.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
