package io

import (
	"strings"

	"github.com/tratzlaff/sbomgen/pkg/deps"
)

// TreeParser reads JSON dependency trees as a [deps.ManifestParser]. It is
// the format to use for resolvers without a dedicated reader: dump the
// resolved graph as JSON and feed it to sbomgen.
type TreeParser struct{}

func (p *TreeParser) Type() string              { return "tree" }
func (p *TreeParser) IncludesTransitive() bool  { return true }
func (p *TreeParser) Supports(name string) bool { return strings.HasSuffix(strings.ToLower(name), ".json") }

func (p *TreeParser) Parse(path string, _ deps.Options) (*deps.ManifestResult, error) {
	t, err := ImportTree(path)
	if err != nil {
		return nil, err
	}
	return &deps.ManifestResult{
		Root:               t.Root,
		Type:               p.Type(),
		Ecosystem:          t.Ecosystem,
		IncludesTransitive: true,
	}, nil
}

// Language exposes [TreeParser] alongside the ecosystem readers.
var Language = &deps.Language{
	Name:            "tree",
	ManifestTypes:   []string{"tree"},
	ManifestAliases: map[string]string{"json": "tree"},
	NewManifest: func(name string) deps.ManifestParser {
		if name == "tree" {
			return &TreeParser{}
		}
		return nil
	},
	ManifestParsers: func() []deps.ManifestParser { return []deps.ManifestParser{&TreeParser{}} },
}
