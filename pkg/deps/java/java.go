package java

import "github.com/tratzlaff/sbomgen/pkg/deps"

// Language reads Maven project files.
var Language = &deps.Language{
	Name:            "java",
	ManifestTypes:   []string{"pom"},
	ManifestAliases: map[string]string{"pom.xml": "pom"},
	NewManifest:     newManifest,
	ManifestParsers: manifestParsers,
}

func newManifest(name string) deps.ManifestParser {
	switch name {
	case "pom":
		return &POMParser{}
	default:
		return nil
	}
}

func manifestParsers() []deps.ManifestParser {
	return []deps.ManifestParser{&POMParser{}}
}
