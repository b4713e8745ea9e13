package gradle

import "github.com/tratzlaff/sbomgen/pkg/deps"

// Language reads Gradle dependency reports.
var Language = &deps.Language{
	Name:          "gradle",
	ManifestTypes: []string{"report"},
	ManifestAliases: map[string]string{
		"dependencies.txt":        "report",
		"gradle-dependencies.txt": "report",
		"gradle":                  "report",
	},
	NewManifest:     newManifest,
	ManifestParsers: manifestParsers,
}

func newManifest(name string) deps.ManifestParser {
	switch name {
	case "report":
		return &Report{}
	default:
		return nil
	}
}

func manifestParsers() []deps.ManifestParser {
	return []deps.ManifestParser{&Report{}}
}
