package python

import (
	"regexp"
	"strings"

	"github.com/tratzlaff/sbomgen/pkg/deps"
)

// Group is the coordinate group of every Python package.
const Group = "pypi"

// Language reads Poetry lock files.
var Language = &deps.Language{
	Name:            "python",
	ManifestTypes:   []string{"poetry"},
	ManifestAliases: map[string]string{"poetry.lock": "poetry"},
	NewManifest:     newManifest,
	ManifestParsers: manifestParsers,
}

func newManifest(name string) deps.ManifestParser {
	switch name {
	case "poetry":
		return &PoetryLock{}
	default:
		return nil
	}
}

func manifestParsers() []deps.ManifestParser {
	return []deps.ManifestParser{&PoetryLock{}}
}

var separators = regexp.MustCompile(`[-_.]+`)

// Normalize returns the canonical form of a package name: lower case, with
// runs of '-', '_' and '.' collapsed to a single '-'.
func Normalize(name string) string {
	return separators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

var requirementName = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)`)

// requirement extracts the package name from a requirement string such as
// "requests[socks]>=2.31; python_version > '3.8'".
func requirement(s string) string {
	m := requirementName.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return Normalize(m[1])
}
