package sbom

import (
	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

type config struct {
	namespaceBase string
	withUUID      bool
	purlType      string
	name          string
	licenses      map[deps.Coordinate]string
}

// Option configures [Generate].
type Option func(*config)

// WithNamespaceBase sets the URL prefix of the document namespace
// (default [DefaultNamespaceBase]).
func WithNamespaceBase(base string) Option {
	return func(c *config) { c.namespaceBase = base }
}

// WithUUIDNamespace appends a deterministic UUID to the namespace.
func WithUUIDNamespace(on bool) Option {
	return func(c *config) { c.withUUID = on }
}

// WithPURLType attaches package URLs of the given type to every package.
func WithPURLType(t string) Option {
	return func(c *config) { c.purlType = t }
}

// WithName overrides the document name (default: the project name).
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithLicenses declares licenses for individual coordinates.
func WithLicenses(m map[deps.Coordinate]string) Option {
	return func(c *config) { c.licenses = m }
}

// Generate produces the SBOM JSON for the dependency graph rooted at root.
//
// Empty fields of the root coordinate are filled from project, and empty
// fields of project from the root, so that resolvers which do not know the
// project's own coordinate still produce a complete document. The document
// is named after the project and its namespace is derived from the project
// coordinate.
//
// Generate is a pure function of its inputs: the same graph, project and
// options always yield identical bytes.
func Generate(root *deps.Node, project deps.Coordinate, opts ...Option) ([]byte, error) {
	doc, err := NewForProject(root, project, opts...)
	if err != nil {
		return nil, err
	}
	return Serialize(doc)
}

// NewForProject runs the generation steps of [Generate] and returns the
// sealed document instead of its serialization.
func NewForProject(root *deps.Node, project deps.Coordinate, opts ...Option) (*Document, error) {
	cfg := config{namespaceBase: DefaultNamespaceBase}
	for _, o := range opts {
		o(&cfg)
	}
	if err := errs.ValidateNamespaceBase(cfg.namespaceBase); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "dependency graph has no root")
	}

	// Copy the root so the caller's graph is not modified.
	r := *root
	r.Coordinate = r.Coordinate.Merge(project)
	project = project.Merge(r.Coordinate)

	name := cfg.name
	if name == "" {
		name = project.Name
	}
	doc := NewDocument(name, Namespace(cfg.namespaceBase, project, cfg.withUUID))
	doc.SetPURLType(cfg.purlType)

	if err := Build(&r, doc); err != nil {
		return nil, err
	}
	for c, license := range cfg.licenses {
		if p, ok := doc.PackageFor(c); ok {
			p.LicenseDeclared = license
		}
	}
	doc.Seal()
	return doc, nil
}
