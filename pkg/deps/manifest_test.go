package deps

import (
	"testing"

	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

type mockManifestParser struct {
	typeName     string
	supportsFunc func(string) bool
}

func (m *mockManifestParser) Type() string { return m.typeName }
func (m *mockManifestParser) Supports(filename string) bool {
	if m.supportsFunc != nil {
		return m.supportsFunc(filename)
	}
	return false
}
func (m *mockManifestParser) IncludesTransitive() bool { return true }
func (m *mockManifestParser) Parse(path string, opts Options) (*ManifestResult, error) {
	return &ManifestResult{Type: m.typeName}, nil
}

var _ ManifestParser = (*mockManifestParser)(nil)

func TestDetectManifest(t *testing.T) {
	cargo := &mockManifestParser{
		typeName:     "cargo",
		supportsFunc: func(f string) bool { return f == "Cargo.lock" },
	}
	poetry := &mockManifestParser{
		typeName:     "poetry",
		supportsFunc: func(f string) bool { return f == "poetry.lock" },
	}

	tests := []struct {
		name     string
		path     string
		wantType string
		wantErr  bool
	}{
		{"cargo lock", "Cargo.lock", "cargo", false},
		{"nested path", "/some/project/poetry.lock", "poetry", false},
		{"unsupported", "package.json", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DetectManifest(tt.path, cargo, poetry)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectManifest(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil {
				if !errs.Is(err, errs.ErrCodeUnsupported) {
					t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeUnsupported)
				}
				return
			}
			if p.Type() != tt.wantType {
				t.Errorf("Type() = %q, want %q", p.Type(), tt.wantType)
			}
		})
	}
}

func TestLanguageManifest(t *testing.T) {
	lang := &Language{
		Name:            "test",
		ManifestTypes:   []string{"lock"},
		ManifestAliases: map[string]string{"test.lock": "lock"},
		NewManifest: func(name string) ManifestParser {
			if name == "lock" {
				return &mockManifestParser{typeName: "lock"}
			}
			return nil
		},
		ManifestParsers: func() []ManifestParser {
			return []ManifestParser{&mockManifestParser{typeName: "lock"}}
		},
	}

	if p, ok := lang.Manifest("lock"); !ok || p.Type() != "lock" {
		t.Errorf("Manifest(lock) = %v, %v", p, ok)
	}
	if p, ok := lang.Manifest("test.lock"); !ok || p.Type() != "lock" {
		t.Errorf("Manifest(test.lock) = %v, %v", p, ok)
	}
	if _, ok := lang.Manifest("other"); ok {
		t.Error("Manifest(other) should not be found")
	}

	if _, ok := FindManifest("test.lock", &Language{Name: "empty"}, lang); !ok {
		t.Error("FindManifest(test.lock) should be found")
	}
	if got := len(AllParsers(lang, &Language{Name: "empty"})); got != 1 {
		t.Errorf("AllParsers() returned %d parsers, want 1", got)
	}
}
