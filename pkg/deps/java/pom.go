package java

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

// POMParser parses pom.xml files into a root and its direct dependencies.
type POMParser struct{}

func (p *POMParser) Type() string              { return "pom" }
func (p *POMParser) IncludesTransitive() bool  { return false }
func (p *POMParser) Supports(name string) bool { return name == "pom.xml" }

func (p *POMParser) Parse(path string, opts deps.Options) (*deps.ManifestResult, error) {
	opts = opts.WithDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "pom %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read pom %s", path)
	}

	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	return &deps.ManifestResult{
		Root:               buildTree(&pom, opts),
		Type:               p.Type(),
		Ecosystem:          "maven",
		IncludesTransitive: false,
	}, nil
}

func buildTree(pom *pomProject, opts deps.Options) *deps.Node {
	props := pom.properties()
	root := &deps.Node{Coordinate: deps.Coordinate{
		Group:   props["project.groupId"],
		Name:    pom.ArtifactID,
		Version: props["project.version"],
	}}

	managed := make(map[string]string)
	for _, d := range pom.Management {
		managed[expand(d.GroupID, props)+":"+expand(d.ArtifactID, props)] = expand(d.Version, props)
	}

	seen := make(map[string]bool)
	for _, dep := range pom.Dependencies {
		if !opts.IncludeDev && (dep.Scope == "test" || dep.Scope == "provided" || dep.Optional == "true") {
			continue
		}
		group, artifact := expand(dep.GroupID, props), expand(dep.ArtifactID, props)
		key := group + ":" + artifact
		if seen[key] {
			continue
		}
		seen[key] = true

		version := expand(dep.Version, props)
		if version == "" {
			version = managed[key]
		}
		if version == "" || unresolved(group) || unresolved(artifact) || unresolved(version) {
			opts.Logger("skipped %s: version not resolvable from pom", key)
			continue
		}
		root.Add(deps.NewNode(group, artifact, version))
	}
	return root
}

func unresolved(s string) bool { return strings.Contains(s, "${") }

// expand substitutes ${name} references from props. Unknown references are
// left in place.
func expand(s string, props map[string]string) string {
	s = strings.TrimSpace(s)
	for range 10 {
		start := strings.Index(s, "${")
		if start < 0 {
			return s
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			return s
		}
		v, ok := props[s[start+2:start+end]]
		if !ok {
			return s
		}
		s = s[:start] + v + s[start+end+1:]
	}
	return s
}

type pomProject struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Name         string          `xml:"name"`
	Parent       *pomParent      `xml:"parent"`
	Properties   pomProperties   `xml:"properties"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Management   []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomProperties struct {
	Entries []pomProperty `xml:",any"`
}

type pomProperty struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

// properties returns the <properties> of the pom plus the project.*
// built-ins, with the group and version inherited from the parent when the
// project does not set them.
func (p *pomProject) properties() map[string]string {
	props := make(map[string]string, len(p.Properties.Entries)+4)
	for _, e := range p.Properties.Entries {
		props[e.XMLName.Local] = strings.TrimSpace(e.Value)
	}

	group, version := strings.TrimSpace(p.GroupID), strings.TrimSpace(p.Version)
	if p.Parent != nil {
		if group == "" {
			group = strings.TrimSpace(p.Parent.GroupID)
		}
		if version == "" {
			version = strings.TrimSpace(p.Parent.Version)
		}
		props["project.parent.version"] = strings.TrimSpace(p.Parent.Version)
	}
	props["project.groupId"] = group
	props["project.version"] = expand(version, props)
	props["project.artifactId"] = strings.TrimSpace(p.ArtifactID)
	return props
}
