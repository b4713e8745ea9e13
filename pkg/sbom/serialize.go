package sbom

import (
	"bytes"
	"encoding/json"
	"io"

	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

type document struct {
	ID            string         `json:"id"`
	Namespace     string         `json:"namespace"`
	Name          string         `json:"name"`
	Packages      []pkg          `json:"packages"`
	Relationships []relationship `json:"relationships"`
}

type pkg struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	VersionInfo     string `json:"versionInfo"`
	LicenseDeclared string `json:"licenseDeclared"`
	ExternalRef     string `json:"externalRef,omitempty"`
}

type relationship struct {
	ElementID        string `json:"elementId"`
	Type             string `json:"type"`
	RelatedElementID string `json:"relatedElementId"`
	Comment          string `json:"comment,omitempty"`
}

// Serialize renders doc as indented JSON. It is a pure projection: doc is
// not modified, and packages and relationships keep insertion order, so the
// same document always yields the same bytes.
//
// Returns a SERIALIZATION_ERROR naming the offending id if a relationship
// references an element that does not exist. [Build] never produces such a
// document; the check guards against defects, not bad input.
func Serialize(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON is like [Serialize] but writes to w.
func WriteJSON(doc *Document, w io.Writer) error {
	out, err := project(doc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return errs.Wrap(errs.ErrCodeSerialization, err, "encode document %s", doc.Name)
	}
	return nil
}

func project(doc *Document) (document, error) {
	if err := doc.graph.Validate(); err != nil {
		return document{}, errs.Wrap(errs.ErrCodeSerialization, err, "document %s", doc.Name)
	}

	out := document{
		ID:            DocumentID,
		Namespace:     doc.Namespace,
		Name:          doc.Name,
		Packages:      make([]pkg, 0, len(doc.packages)),
		Relationships: []relationship{},
	}

	known := make(map[string]bool, len(doc.packages))
	for _, p := range doc.packages {
		known[p.ID] = true
		out.Packages = append(out.Packages, pkg{
			ID:              p.ID,
			Name:            p.Name,
			VersionInfo:     p.VersionInfo,
			LicenseDeclared: orNoAssertion(p.LicenseDeclared),
			ExternalRef:     p.PURL,
		})
	}

	for _, r := range doc.Relationships() {
		if err := checkEndpoints(r, known); err != nil {
			return document{}, err
		}
		out.Relationships = append(out.Relationships, relationship{
			ElementID:        r.From,
			Type:             string(r.Type),
			RelatedElementID: r.To,
			Comment:          r.Comment,
		})
	}
	return out, nil
}

func orNoAssertion(s string) string {
	if s == "" {
		return NoAssertion
	}
	return s
}

func checkEndpoints(r Relationship, known map[string]bool) error {
	switch r.Type {
	case Describes:
		if r.From != DocumentID {
			return errs.New(errs.ErrCodeSerialization, "DESCRIBES relationship from %q, want %s", r.From, DocumentID)
		}
	case DependsOn:
		if !known[r.From] {
			return errs.New(errs.ErrCodeSerialization, "relationship references unknown element %q", r.From)
		}
	default:
		return errs.New(errs.ErrCodeSerialization, "unknown relationship type %q", r.Type)
	}
	if !known[r.To] {
		return errs.New(errs.ErrCodeSerialization, "relationship references unknown element %q", r.To)
	}
	return nil
}
