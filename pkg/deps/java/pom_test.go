package java

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

func TestPOMParser_Supports(t *testing.T) {
	parser := &POMParser{}

	tests := []struct {
		filename string
		want     bool
	}{
		{"pom.xml", true},
		{"Pom.xml", false},
		{"build.gradle", false},
		{"package.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := parser.Supports(tt.filename); got != tt.want {
				t.Errorf("Supports(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

const samplePOM = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>parent</artifactId>
    <version>2.0.0</version>
  </parent>
  <artifactId>my-app</artifactId>

  <properties>
    <guava.version>31.0-jre</guava.version>
  </properties>

  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>org.slf4j</groupId>
        <artifactId>slf4j-api</artifactId>
        <version>2.0.7</version>
      </dependency>
    </dependencies>
  </dependencyManagement>

  <dependencies>
    <dependency>
      <groupId>org.springframework</groupId>
      <artifactId>spring-core</artifactId>
      <version>5.3.0</version>
    </dependency>
    <dependency>
      <groupId>com.google.guava</groupId>
      <artifactId>guava</artifactId>
      <version>${guava.version}</version>
    </dependency>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
    </dependency>
    <dependency>
      <groupId>${project.groupId}</groupId>
      <artifactId>my-lib</artifactId>
      <version>${project.version}</version>
    </dependency>
    <dependency>
      <groupId>org.unknown</groupId>
      <artifactId>bom-managed</artifactId>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.13</version>
      <scope>test</scope>
    </dependency>
    <dependency>
      <groupId>org.projectlombok</groupId>
      <artifactId>lombok</artifactId>
      <version>1.18.0</version>
      <scope>provided</scope>
    </dependency>
    <dependency>
      <groupId>org.springframework</groupId>
      <artifactId>spring-core</artifactId>
      <version>5.3.0</version>
    </dependency>
  </dependencies>
</project>`

func coords(n *deps.Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Coordinate.String())
	}
	return out
}

func TestPOMParser_Parse(t *testing.T) {
	dir := t.TempDir()
	pomFile := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(pomFile, []byte(samplePOM), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	opts := deps.Options{Logger: func(f string, args ...any) { warnings = append(warnings, f) }}
	result, err := (&POMParser{}).Parse(pomFile, opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.IncludesTransitive || result.Ecosystem != "maven" {
		t.Errorf("result = %+v", result)
	}

	root := result.Root
	if root.Coordinate != (deps.Coordinate{Group: "com.example", Name: "my-app", Version: "2.0.0"}) {
		t.Errorf("root = %v", root.Coordinate)
	}

	want := []string{
		"org.springframework:spring-core:5.3.0",
		"com.google.guava:guava:31.0-jre",
		"org.slf4j:slf4j-api:2.0.7",
		"com.example:my-lib:2.0.0",
	}
	got := coords(root)
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d = %s, want %s", i, got[i], want[i])
		}
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one for bom-managed", warnings)
	}
}

func TestPOMParser_IncludeDev(t *testing.T) {
	dir := t.TempDir()
	pomFile := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(pomFile, []byte(samplePOM), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := (&POMParser{}).Parse(pomFile, deps.Options{IncludeDev: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(result.Root.Children); n != 6 {
		t.Errorf("children = %v, want 6 with test and provided", coords(result.Root))
	}
}

func TestPOMParser_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := (&POMParser{}).Parse(filepath.Join(dir, "pom.xml"), deps.Options{}); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Parse(missing) error = %v", err)
	}

	bad := filepath.Join(dir, "bad.xml")
	_ = os.WriteFile(bad, []byte("<project><dependencies>"), 0o644)
	if _, err := (&POMParser{}).Parse(bad, deps.Options{}); !errs.Is(err, errs.ErrCodeInvalidManifest) {
		t.Errorf("Parse(bad) error = %v", err)
	}
}

func TestExpand(t *testing.T) {
	props := map[string]string{"a": "1", "b": "${a}.2", "project.version": "3"}
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"${a}", "1"},
		{"${b}", "1.2"},
		{"v${project.version}-x", "v3-x"},
		{"${missing}", "${missing}"},
		{" ${a} ", "1"},
	}
	for _, tt := range tests {
		if got := expand(tt.in, props); got != tt.want {
			t.Errorf("expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLanguage(t *testing.T) {
	if p, ok := Language.Manifest("pom.xml"); !ok || p.Type() != "pom" {
		t.Errorf("Manifest(pom.xml) = %v, %v", p, ok)
	}
}
