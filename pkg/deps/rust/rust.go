package rust

import "github.com/tratzlaff/sbomgen/pkg/deps"

// Group is the coordinate group of every crate. Cargo has no group concept,
// so the registry name stands in for it.
const Group = "crates.io"

// Language reads Cargo lock files.
var Language = &deps.Language{
	Name:            "rust",
	ManifestTypes:   []string{"cargo"},
	ManifestAliases: map[string]string{"Cargo.lock": "cargo", "cargo.lock": "cargo"},
	NewManifest:     newManifest,
	ManifestParsers: manifestParsers,
}

func newManifest(name string) deps.ManifestParser {
	switch name {
	case "cargo":
		return &CargoLock{}
	default:
		return nil
	}
}

func manifestParsers() []deps.ManifestParser {
	return []deps.ManifestParser{&CargoLock{}}
}
