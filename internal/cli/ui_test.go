package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	p := newPrinter(cmd)

	p.success("Cleared %d cached entries", 3)
	p.warning("%s lists direct dependencies only", "pom.xml")
	p.info("cycle")
	p.detail("Directory: %s", "/tmp/c")
	p.file("out/app.sbom.json")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{
		"Cleared 3 cached entries",
		"pom.xml lists direct dependencies only",
		"cycle",
		"Directory: /tmp/c",
		"out/app.sbom.json",
	} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
	if !strings.HasPrefix(lines[4], "  ") {
		t.Errorf("file line not indented: %q", lines[4])
	}
}
