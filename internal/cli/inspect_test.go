package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	sbomio "github.com/tratzlaff/sbomgen/pkg/io"
	"github.com/tratzlaff/sbomgen/pkg/sbom"
)

func TestInspect(t *testing.T) {
	serde := deps.NewNode("crates.io", "serde", "1.0")
	root := deps.NewNode("crates.io", "app", "0.1",
		serde,
		deps.NewNode("crates.io", "log", "0.4", deps.NewNode("crates.io", "serde", "1.0")),
	)
	root.Children[1].Add(root) // cycle back to the root

	res := &deps.ManifestResult{Root: root, Type: "cargo", Ecosystem: "cargo", IncludesTransitive: true}
	doc, err := sbom.NewForProject(root, deps.Coordinate{})
	if err != nil {
		t.Fatal(err)
	}

	got := inspect("Cargo.lock", res, doc)
	if got.graph.Positions != 4 || got.graph.Coordinates != 3 || got.graph.Collapsed() != 1 {
		t.Errorf("graph stats = %+v", got.graph)
	}
	if got.packages != 3 || got.relationships != 5 {
		t.Errorf("packages %d, relationships %d; want 3 and 5", got.packages, got.relationships)
	}
	if len(got.cycles) != 1 || got.cycles[0] != [2]string{"crates.io:log:0.4", "crates.io:app:0.1"} {
		t.Errorf("cycles = %v", got.cycles)
	}

	table := inspectTable([]inspection{got})
	for _, want := range []string{"Cargo.lock", "cargo", "Collapsed", "Relationships"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
}

func TestInspectCommandExport(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "deps.json")
	if err := os.WriteFile(input, []byte(tree), 0o644); err != nil {
		t.Fatal(err)
	}
	export := filepath.Join(dir, "export.json")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"inspect", input, "--export", export})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("inspect error = %v", err)
	}

	back, err := sbomio.ImportTree(export)
	if err != nil {
		t.Fatalf("ImportTree(export) error = %v", err)
	}
	if back.Ecosystem != "cargo" || deps.Summarize(back.Root).Coordinates != 3 {
		t.Errorf("exported tree = %+v", back)
	}

	root = New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"inspect", input, input, "--export", export})
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("--export with two inputs should fail")
	}
}
