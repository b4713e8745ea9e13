package rust

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

// CargoLock parses Cargo.lock files.
type CargoLock struct{}

func (c *CargoLock) Type() string              { return "cargo" }
func (c *CargoLock) IncludesTransitive() bool  { return true }
func (c *CargoLock) Supports(name string) bool { return strings.EqualFold(name, "cargo.lock") }

func (c *CargoLock) Parse(path string, opts deps.Options) (*deps.ManifestResult, error) {
	opts = opts.WithDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "cargo lock %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read cargo lock %s", path)
	}

	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	root, err := buildTree(lock.Packages, rootPackage(filepath.Dir(path)), opts)
	if err != nil {
		return nil, err
	}
	return &deps.ManifestResult{
		Root:               root,
		Type:               c.Type(),
		Ecosystem:          "cargo",
		IncludesTransitive: true,
	}, nil
}

type lockFile struct {
	Version  int           `toml:"version"`
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Dependencies []string `toml:"dependencies"`
}

type cargoFile struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// rootPackage reads the package name from a sibling Cargo.toml, if any.
func rootPackage(dir string) string {
	var cargo cargoFile
	if _, err := toml.DecodeFile(filepath.Join(dir, "Cargo.toml"), &cargo); err != nil {
		return ""
	}
	return cargo.Package.Name
}

func buildTree(packages []lockPackage, rootName string, opts deps.Options) (*deps.Node, error) {
	nodes := make([]*deps.Node, len(packages))
	byName := make(map[string][]int)
	for i, p := range packages {
		nodes[i] = deps.NewNode(Group, p.Name, p.Version)
		byName[p.Name] = append(byName[p.Name], i)
	}

	depended := make([]bool, len(packages))
	for i, p := range packages {
		for _, spec := range p.Dependencies {
			j, err := lookup(spec, packages, byName)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "package %s %s", p.Name, p.Version)
			}
			if j < 0 {
				opts.Logger("skipped unknown dependency %q of %s", spec, p.Name)
				continue
			}
			nodes[i].Add(nodes[j])
			depended[j] = true
		}
	}

	if rootName != "" {
		if idx := byName[rootName]; len(idx) == 1 {
			return nodes[idx[0]], nil
		}
	}

	var local, tops []int
	for i, p := range packages {
		if depended[i] {
			continue
		}
		tops = append(tops, i)
		if p.Source == "" {
			local = append(local, i)
		}
	}
	if len(local) == 1 {
		return nodes[local[0]], nil
	}

	root := &deps.Node{}
	for _, i := range tops {
		root.Add(nodes[i])
	}
	return root, nil
}

// lookup resolves a dependency string ("name", "name version" or
// "name version (source)") to a package index, or -1 if it is not locked.
func lookup(spec string, packages []lockPackage, byName map[string][]int) (int, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return -1, errs.New(errs.ErrCodeInvalidManifest, "empty dependency")
	}
	candidates := byName[fields[0]]
	if len(fields) == 1 {
		switch len(candidates) {
		case 0:
			return -1, nil
		case 1:
			return candidates[0], nil
		default:
			return -1, errs.New(errs.ErrCodeInvalidManifest, "dependency %q is ambiguous", spec)
		}
	}
	for _, i := range candidates {
		if packages[i].Version == fields[1] {
			return i, nil
		}
	}
	return -1, nil
}
