package python

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

// PoetryLock parses poetry.lock files. It provides a full transitive closure
// of the dependency graph without needing to contact a registry.
type PoetryLock struct{}

func (p *PoetryLock) Type() string              { return "poetry" }
func (p *PoetryLock) IncludesTransitive() bool  { return true }
func (p *PoetryLock) Supports(name string) bool { return name == "poetry.lock" }

func (p *PoetryLock) Parse(path string, opts deps.Options) (*deps.ManifestResult, error) {
	opts = opts.WithDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "poetry lock %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read poetry lock %s", path)
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	project, err := readPyproject(filepath.Join(filepath.Dir(path), "pyproject.toml"))
	if err != nil {
		return nil, err
	}

	return &deps.ManifestResult{
		Root:               buildTree(lock.Packages, project, opts),
		Type:               p.Type(),
		Ecosystem:          "pypi",
		IncludesTransitive: true,
	}, nil
}

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name         string         `toml:"name"`
	Version      string         `toml:"version"`
	Category     string         `toml:"category"`
	Groups       []string       `toml:"groups"`
	Dependencies map[string]any `toml:"dependencies"`
}

func (p lockPackage) dev() bool {
	if p.Category != "" {
		return p.Category == "dev"
	}
	return len(p.Groups) > 0 && !slices.Contains(p.Groups, "main")
}

type pyproject struct {
	Tool struct {
		Poetry struct {
			Name            string                    `toml:"name"`
			Version         string                    `toml:"version"`
			Dependencies    map[string]any            `toml:"dependencies"`
			DevDependencies map[string]any            `toml:"dev-dependencies"`
			Groups          map[string]pyprojectGroup `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

type pyprojectGroup struct {
	Dependencies map[string]any `toml:"dependencies"`
}

// projectInfo is what the lock file alone does not tell: the project's own
// name and version and its direct dependencies.
type projectInfo struct {
	name, version string
	direct        []string
	dev           []string
}

func readPyproject(path string) (projectInfo, error) {
	var py pyproject
	if _, err := toml.DecodeFile(path, &py); err != nil {
		if os.IsNotExist(err) {
			return projectInfo{}, nil
		}
		return projectInfo{}, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	info := projectInfo{name: py.Tool.Poetry.Name, version: py.Tool.Poetry.Version}
	if info.name == "" {
		info.name = py.Project.Name
	}
	if info.version == "" {
		info.version = py.Project.Version
	}

	for name := range py.Tool.Poetry.Dependencies {
		if name != "python" {
			info.direct = append(info.direct, Normalize(name))
		}
	}
	for _, req := range py.Project.Dependencies {
		if name := requirement(req); name != "" {
			info.direct = append(info.direct, name)
		}
	}
	for name := range py.Tool.Poetry.DevDependencies {
		info.dev = append(info.dev, Normalize(name))
	}
	for _, g := range py.Tool.Poetry.Groups {
		for name := range g.Dependencies {
			info.dev = append(info.dev, Normalize(name))
		}
	}

	info.name = Normalize(info.name)
	info.direct = sortedUnique(info.direct)
	info.dev = sortedUnique(info.dev)
	return info, nil
}

func sortedUnique(s []string) []string {
	slices.Sort(s)
	return slices.Compact(s)
}

func buildTree(packages []lockPackage, project projectInfo, opts deps.Options) *deps.Node {
	nodes := make(map[string]*deps.Node, len(packages))
	var order []string
	for _, pkg := range packages {
		if pkg.dev() && !opts.IncludeDev {
			continue
		}
		name := Normalize(pkg.Name)
		if _, dup := nodes[name]; dup {
			opts.Logger("duplicate lock entry for %s, keeping the first", name)
			continue
		}
		nodes[name] = deps.NewNode(Group, name, pkg.Version)
		order = append(order, name)
	}

	incoming := make(map[string]bool)
	for _, pkg := range packages {
		from, ok := nodes[Normalize(pkg.Name)]
		if !ok || from.Version != pkg.Version {
			continue
		}
		names := make([]string, 0, len(pkg.Dependencies))
		for dep := range pkg.Dependencies {
			names = append(names, Normalize(dep))
		}
		for _, to := range sortedUnique(names) {
			if child, ok := nodes[to]; ok {
				from.Add(child)
				incoming[to] = true
			}
		}
	}

	root := &deps.Node{Coordinate: deps.Coordinate{Group: Group, Name: project.name, Version: project.version}}
	if project.name == "" {
		root.Group = ""
	}

	direct := project.direct
	if opts.IncludeDev {
		direct = sortedUnique(append(slices.Clone(direct), project.dev...))
	}
	if len(direct) > 0 {
		for _, name := range direct {
			if child, ok := nodes[name]; ok {
				root.Add(child)
			} else {
				opts.Logger("declared dependency %s is not locked", name)
			}
		}
		return root
	}

	for _, name := range order {
		if !incoming[name] {
			root.Add(nodes[name])
		}
	}
	return root
}
