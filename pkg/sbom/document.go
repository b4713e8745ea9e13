package sbom

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/tratzlaff/sbomgen/pkg/dag"
	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

// DocumentID is the element identifier of the document itself. It is the
// source of the DESCRIBES relationship. It contains no ':' and so cannot
// collide with a package identifier.
const DocumentID = "SPDXRef-DOCUMENT"

// DefaultNamespaceBase prefixes document namespaces when no base is configured.
const DefaultNamespaceBase = "https://spdx.org/spdxdocs"

// NoAssertion is rendered as the declared license of packages that have none.
const NoAssertion = "NOASSERTION"

// RelationshipType is the type of a relationship between two elements.
type RelationshipType string

const (
	// Describes relates the document to its root package.
	Describes RelationshipType = "DESCRIBES"
	// DependsOn relates a parent package to a child package.
	DependsOn RelationshipType = "DEPENDS_ON"
)

// Package is one package element of the document. At most one Package
// exists per distinct coordinate.
type Package struct {
	ID          string
	Name        string
	VersionInfo string
	Coordinate  deps.Coordinate

	// LicenseDeclared is optional and never part of the package identity.
	LicenseDeclared string
	// PURL is a package URL, set when the document has a purl type.
	PURL string
}

// Relationship is a typed edge between two elements. Its identity is the
// (From, To, Type) triple.
type Relationship struct {
	From    string
	To      string
	Type    RelationshipType
	Comment string
}

// Document is the SBOM aggregate. It exclusively owns its packages and
// relationships for one generation run: it is created, populated by [Build],
// sealed, serialized, and discarded.
//
// The zero value is not usable - use [NewDocument].
type Document struct {
	Namespace string
	Name      string

	graph    *dag.Graph
	packages []*Package
	byID     map[string]*Package
	byCoord  map[deps.Coordinate]*Package
	purlType string
	root     *Package
	sealed   bool
}

// NewDocument creates an empty document with the given name and namespace.
func NewDocument(name, namespace string) *Document {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: DocumentID, Kind: dag.NodeKindDocument})
	return &Document{
		Namespace: namespace,
		Name:      name,
		graph:     g,
		byID:      make(map[string]*Package),
		byCoord:   make(map[deps.Coordinate]*Package),
	}
}

// SetPURLType makes the document attach package URLs of the given type
// ("maven", "cargo", "pypi", ...) to packages created afterwards.
func (d *Document) SetPURLType(t string) { d.purlType = t }

// Packages returns the package elements in insertion order.
func (d *Document) Packages() []*Package {
	out := make([]*Package, len(d.packages))
	copy(out, d.packages)
	return out
}

// Relationships returns the relationships in insertion order.
func (d *Document) Relationships() []Relationship {
	edges := d.graph.Edges()
	out := make([]Relationship, len(edges))
	for i, e := range edges {
		comment, _ := e.Meta["comment"].(string)
		out[i] = Relationship{From: e.From, To: e.To, Type: RelationshipType(e.Kind), Comment: comment}
	}
	return out
}

// Package returns the package element with the given id.
func (d *Document) Package(id string) (*Package, bool) {
	p, ok := d.byID[id]
	return p, ok
}

// PackageFor returns the package element created for coordinate c.
func (d *Document) PackageFor(c deps.Coordinate) (*Package, bool) {
	p, ok := d.byCoord[c]
	return p, ok
}

// Root returns the package the document describes, or nil before [Build].
func (d *Document) Root() *Package { return d.root }

// Graph returns the element graph. Node IDs are element IDs; the document
// node has kind [dag.NodeKindDocument]. Callers must not mutate it.
func (d *Document) Graph() *dag.Graph { return d.graph }

// Seal marks the document as final. Mutating methods fail afterwards.
func (d *Document) Seal() { d.sealed = true }

// Sealed reports whether [Document.Seal] has been called.
func (d *Document) Sealed() bool { return d.sealed }

// SetLicense records the declared license of a package. It does not affect
// identity or deduplication.
func (d *Document) SetLicense(id, license string) error {
	if d.sealed {
		return errs.New(errs.ErrCodeInternal, "document %s is sealed", d.Name)
	}
	p, ok := d.byID[id]
	if !ok {
		return errs.New(errs.ErrCodeInvalidInput, "unknown package %q", id)
	}
	p.LicenseDeclared = license
	return nil
}

// addPackage creates the element for c under a precomputed id.
func (d *Document) addPackage(c deps.Coordinate, id string) (*Package, error) {
	if other, ok := d.byID[id]; ok {
		// ElementID is injective, so this only happens on a broken escape.
		return nil, errs.New(errs.ErrCodeInternal, "element id %q shared by %s and %s", id, other.Coordinate, c)
	}
	if err := d.graph.AddNode(dag.Node{ID: id, Kind: dag.NodeKindPackage}); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "add element %q", id)
	}
	p := &Package{
		ID:          id,
		Name:        c.Name,
		VersionInfo: c.Version,
		Coordinate:  c,
	}
	if d.purlType != "" {
		p.PURL = PURL(d.purlType, c)
	}
	d.packages = append(d.packages, p)
	d.byID[id] = p
	d.byCoord[c] = p
	return p, nil
}

// relate adds a relationship, collapsing duplicates of the same triple.
func (d *Document) relate(from, to string, t RelationshipType, comment string) error {
	e := dag.Edge{From: from, To: to, Kind: string(t)}
	if comment != "" {
		e.Meta = dag.Metadata{"comment": comment}
	}
	if _, err := d.graph.AddEdge(e); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "relate %s -> %s", from, to)
	}
	return nil
}

// Namespace builds the document namespace for a project:
// base/group/name/version, each segment path-escaped. With withUUID, a
// name-based (SHA-1, version 5) UUID of that URL is appended, which makes
// the namespace globally unique while staying deterministic.
func Namespace(base string, project deps.Coordinate, withUUID bool) string {
	base = strings.TrimRight(base, "/")
	ns := base + "/" + url.PathEscape(project.Group) + "/" + url.PathEscape(project.Name) + "/" + url.PathEscape(project.Version)
	if withUUID {
		ns += "-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(ns)).String()
	}
	return ns
}

// PURL renders a package URL for c. Only maven coordinates carry the group
// as purl namespace; other ecosystems use a synthetic group that is omitted.
// '@' is escaped in every segment so the version separator stays unique.
func PURL(purlType string, c deps.Coordinate) string {
	var b strings.Builder
	b.WriteString("pkg:")
	b.WriteString(purlType)
	b.WriteByte('/')
	if purlType == "maven" {
		b.WriteString(purlSegment(c.Group))
		b.WriteByte('/')
	}
	b.WriteString(purlSegment(c.Name))
	b.WriteByte('@')
	b.WriteString(purlSegment(c.Version))
	return b.String()
}

func purlSegment(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), "@", "%40")
}
