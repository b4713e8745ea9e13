package deps

// Language groups the manifest parsers of one build ecosystem.
type Language struct {
	Name            string
	ManifestTypes   []string
	ManifestAliases map[string]string
	NewManifest     func(name string) ManifestParser
	ManifestParsers func() []ManifestParser
}

// Manifest returns the parser registered under name (or one of its aliases).
func (l *Language) Manifest(name string) (ManifestParser, bool) {
	if l.NewManifest == nil {
		return nil, false
	}
	p := l.NewManifest(l.alias(l.ManifestAliases, name))
	return p, p != nil
}

func (l *Language) alias(m map[string]string, name string) string {
	if v, ok := m[name]; ok {
		return v
	}
	return name
}

// FindManifest looks up a manifest type across languages, e.g. "cargo" or
// "Cargo.lock".
func FindManifest(name string, langs ...*Language) (ManifestParser, bool) {
	for _, l := range langs {
		if p, ok := l.Manifest(name); ok {
			return p, true
		}
	}
	return nil, false
}

// AllParsers flattens the parsers of every language, in order.
func AllParsers(langs ...*Language) []ManifestParser {
	var out []ManifestParser
	for _, l := range langs {
		if l.ManifestParsers != nil {
			out = append(out, l.ManifestParsers()...)
		}
	}
	return out
}
