package gradle

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

// Report parses the output of "gradle dependencies". The report is already
// resolved, so the result includes transitive dependencies.
type Report struct{}

func (r *Report) Type() string             { return "gradle" }
func (r *Report) IncludesTransitive() bool { return true }
func (r *Report) Supports(name string) bool {
	return name == "dependencies.txt" || strings.HasSuffix(name, "-dependencies.txt")
}

func (r *Report) Parse(path string, opts deps.Options) (*deps.ManifestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "gradle report %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open gradle report %s", path)
	}
	defer f.Close()

	root, err := ParseReport(f, opts)
	if err != nil {
		return nil, err
	}
	return &deps.ManifestResult{
		Root:               root,
		Type:               r.Type(),
		Ecosystem:          "maven",
		IncludesTransitive: true,
	}, nil
}

const (
	indentWidth  = 5
	branchPrefix = "+--- "
	lastPrefix   = `\--- `
	arrow        = " -> "
)

// ParseReport reads a dependency report from r and returns the tree of the
// configuration selected by opts.
func ParseReport(r io.Reader, opts deps.Options) (*deps.Node, error) {
	opts = opts.WithDefaults()

	root := &deps.Node{}
	// parents[d] is the node that entries at depth d attach to. A nil entry
	// swallows its subtree.
	parents := []*deps.Node{root}
	var found, inSection bool

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")

		if name, ok := rootProjectName(line); ok && root.Name == "" {
			root.Name = name
			continue
		}

		if !inSection {
			if sectionName(line) == opts.Configuration {
				if found {
					return nil, errs.New(errs.ErrCodeInvalidManifest, "line %d: configuration %s listed twice", lineNo, opts.Configuration)
				}
				found, inSection = true, true
			}
			continue
		}

		if line == "" {
			inSection = false
			continue
		}
		if line == "No dependencies" {
			continue
		}

		depth, entry, ok := splitTreeLine(line)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidManifest, "line %d: unexpected %q in configuration %s", lineNo, line, opts.Configuration)
		}
		if depth >= len(parents) {
			return nil, errs.New(errs.ErrCodeInvalidManifest, "line %d: entry at depth %d has no parent", lineNo, depth)
		}
		parents = parents[:depth+1]
		parent := parents[depth]

		n, err := parseEntry(entry, opts)
		if err != nil {
			return nil, errs.New(errs.GetCode(err), "line %d: %s", lineNo, errs.UserMessage(err))
		}
		if n != nil && parent != nil {
			parent.Add(n)
		}
		if n == nil {
			opts.Logger("skipped constraint: %s", entry)
		}
		parents = append(parents, n)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "read gradle report")
	}
	if !found {
		return nil, errs.New(errs.ErrCodeInvalidManifest, "configuration %s not found in report", opts.Configuration)
	}
	return root, nil
}

// rootProjectName extracts the project name from a banner line such as
// "Root project 'demo'" or "Root project 'demo' - An example".
func rootProjectName(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "Root project '")
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, "'")
	return name, ok && name != ""
}

// sectionName returns the configuration named by a section header
// ("runtimeClasspath - Runtime classpath of source set 'main'.").
func sectionName(line string) string {
	if line == "" || strings.ContainsAny(line[:1], " +\\|") {
		return ""
	}
	name, _, _ := strings.Cut(line, " - ")
	if strings.ContainsAny(name, " \t") {
		return ""
	}
	return name
}

// splitTreeLine strips the tree drawing from line and returns the depth of
// the entry (0 for direct dependencies).
func splitTreeLine(line string) (int, string, bool) {
	depth := 0
	for {
		switch {
		case strings.HasPrefix(line, branchPrefix), strings.HasPrefix(line, lastPrefix):
			return depth, line[len(branchPrefix):], true
		case strings.HasPrefix(line, "|    "), strings.HasPrefix(line, "     "):
			line = line[indentWidth:]
			depth++
		default:
			return 0, "", false
		}
	}
}

// parseEntry parses one dependency entry. It returns nil for entries that
// are not part of the resolved graph.
func parseEntry(entry string, opts deps.Options) (*deps.Node, error) {
	s := entry
	for {
		var marker string
		for _, m := range [...]string{" (*)", " (c)", " (n)", " FAILED"} {
			if strings.HasSuffix(s, m) {
				marker = m
				break
			}
		}
		if marker == "" {
			break
		}
		s = strings.TrimSuffix(s, marker)
		switch marker {
		case " (c)":
			return nil, nil
		case " (n)":
			return nil, errs.New(errs.ErrCodeResolveFailed, "%s was not resolved", s)
		case " FAILED":
			return nil, errs.New(errs.ErrCodeResolveFailed, "%s could not be resolved", s)
		}
	}

	declared, selected, redirected := strings.Cut(s, arrow)

	if strings.HasPrefix(declared, "project :") {
		if redirected {
			return coordinateNode(selected, opts)
		}
		return coordinateNode(declared, opts)
	}

	parts := strings.Split(declared, ":")
	switch {
	case len(parts) < 2 || len(parts) > 3:
		return nil, errs.New(errs.ErrCodeInvalidManifest, "malformed dependency %q", entry)
	case redirected && strings.Contains(selected, ":"):
		// Module replaced by another one: "a:b:1 -> c:d:2"
		return coordinateNode(selected, opts)
	}

	version := ""
	if len(parts) == 3 {
		version = parts[2]
	}
	if redirected {
		version = selected
	}
	version = richVersion(version)
	if version == "" {
		return nil, errs.New(errs.ErrCodeResolveFailed, "no resolved version for %s", declared)
	}
	return deps.NewNode(parts[0], parts[1], version), nil
}

func coordinateNode(s string, opts deps.Options) (*deps.Node, error) {
	if sub, ok := strings.CutPrefix(s, "project :"); ok {
		return &deps.Node{Coordinate: deps.Coordinate{
			Group:   opts.Project.Group,
			Name:    strings.ReplaceAll(sub, ":", "-"),
			Version: opts.Project.Version,
		}}, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, errs.New(errs.ErrCodeInvalidManifest, "malformed substitution %q", s)
	}
	return deps.NewNode(parts[0], parts[1], richVersion(parts[2])), nil
}

// richVersion reduces a rich version declaration such as "{strictly 1.0}"
// to the version it pins.
func richVersion(v string) string {
	v = strings.TrimSpace(v)
	inner, ok := strings.CutPrefix(v, "{")
	if !ok {
		return v
	}
	inner = strings.TrimSuffix(inner, "}")
	if i := strings.IndexByte(inner, ';'); i >= 0 {
		inner = inner[:i]
	}
	fields := strings.Fields(inner)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
