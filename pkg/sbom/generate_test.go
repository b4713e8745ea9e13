package sbom

import (
	"bytes"
	"testing"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

func TestNewForProject(t *testing.T) {
	project := deps.Coordinate{Group: "com.acme", Name: "app", Version: "2.0"}

	tests := []struct {
		name     string
		root     *deps.Node
		project  deps.Coordinate
		wantRoot string
		wantNS   string
	}{
		{
			name:     "root from project",
			root:     &deps.Node{},
			project:  project,
			wantRoot: "com.acme:app:2.0",
			wantNS:   DefaultNamespaceBase + "/com.acme/app/2.0",
		},
		{
			name:     "project from root",
			root:     deps.NewNode("org.example", "svc", "0.1"),
			wantRoot: "org.example:svc:0.1",
			wantNS:   DefaultNamespaceBase + "/org.example/svc/0.1",
		},
		{
			name:     "partial merge",
			root:     deps.NewNode("", "svc", ""),
			project:  project,
			wantRoot: "com.acme:svc:2.0",
			wantNS:   DefaultNamespaceBase + "/com.acme/app/2.0", // named after the project, not the root
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewForProject(tt.root, tt.project)
			if err != nil {
				t.Fatalf("NewForProject() error = %v", err)
			}
			if doc.Root().ID != tt.wantRoot {
				t.Errorf("root = %q, want %q", doc.Root().ID, tt.wantRoot)
			}
			if doc.Namespace != tt.wantNS {
				t.Errorf("namespace = %q, want %q", doc.Namespace, tt.wantNS)
			}
			if !doc.Sealed() {
				t.Error("document not sealed")
			}
		})
	}
}

func TestNewForProjectDoesNotModifyInput(t *testing.T) {
	root := deps.NewNode("", "", "", deps.NewNode("g", "lib", "1"))
	if _, err := NewForProject(root, deps.Coordinate{Group: "g", Name: "app", Version: "1"}); err != nil {
		t.Fatal(err)
	}
	if !root.IsZero() {
		t.Errorf("root coordinate modified: %v", root.Coordinate)
	}
}

func TestGenerateOptions(t *testing.T) {
	root := deps.NewNode("com.acme", "app", "1.0", deps.NewNode("com.acme", "lib", "1.0"))

	out, err := Generate(root, deps.Coordinate{},
		WithNamespaceBase("https://sbom.acme.com/"),
		WithName("acme-app"),
		WithPURLType("maven"),
		WithLicenses(map[deps.Coordinate]string{{Group: "com.acme", Name: "lib", Version: "1.0"}: "MIT"}),
	)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, want := range []string{
		`"namespace": "https://sbom.acme.com/com.acme/app/1.0"`,
		`"name": "acme-app"`,
		`"externalRef": "pkg:maven/com.acme/lib@1.0"`,
		`"licenseDeclared": "MIT"`,
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}

	again, _ := Generate(root, deps.Coordinate{},
		WithNamespaceBase("https://sbom.acme.com/"),
		WithName("acme-app"),
		WithPURLType("maven"),
		WithLicenses(map[deps.Coordinate]string{{Group: "com.acme", Name: "lib", Version: "1.0"}: "MIT"}),
	)
	if !bytes.Equal(out, again) {
		t.Error("Generate() not deterministic")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		root *deps.Node
		opts []Option
		want errs.Code
	}{
		{"nil root", nil, nil, errs.ErrCodeInvalidInput},
		{"bad base", deps.NewNode("g", "n", "1"), []Option{WithNamespaceBase("ftp://x")}, errs.ErrCodeInvalidConfig},
		{"missing root fields", &deps.Node{}, nil, errs.ErrCodeInvalidCoordinate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.root, deps.Coordinate{}, tt.opts...)
			if !errs.Is(err, tt.want) {
				t.Errorf("Generate() error = %v, want %s", err, tt.want)
			}
		})
	}
}
