package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/tratzlaff/sbomgen/pkg/errors"
	"github.com/tratzlaff/sbomgen/pkg/pipeline"
)

// outputSuffix marks generated files so a JSON SBOM is never mistaken for
// a JSON dependency tree input.
const outputSuffix = ".sbom"

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output        string   // output file (single input and format) or directory
	typ           string   // force a reader instead of detecting from the filename
	formats       []string // output formats: "json", "dot", "svg"
	group         string   // project coordinate overrides
	name          string
	version       string
	docName       string
	namespaceBase string
	uuidNamespace bool
	configuration string // Gradle configuration section
	includeDev    bool
	detailed      bool // detailed DOT/SVG labels
	noCache       bool
	refresh       bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var formatsStr string
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [file...]",
		Short: "Generate an SBOM from resolved dependency reports",
		Long: `Generate an SBOM from one or more resolved dependency reports.

The reader is chosen from the filename: Gradle "dependencies" task output
(dependencies.txt, *-dependencies.txt), Cargo.lock, poetry.lock, pom.xml or
a JSON dependency tree (*.json). Use --type to force one.

With a single input and format the document is written to stdout, or to
--output. Otherwise each document is written next to its input (or into the
--output directory) as <name>.sbom.<format>.`,
		Example: `  sbomgen generate build/dependencies.txt --group com.acme --version 1.4.0
  sbomgen generate Cargo.lock -f json,svg
  sbomgen generate services/*/poetry.lock -o sboms/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return c.runGenerate(cmd, cfg, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input and format) or directory")
	cmd.Flags().StringVarP(&opts.typ, "type", "t", "", "input type: report, cargo, poetry, pom, tree (default: detect from filename)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().StringVar(&opts.group, "group", "", "project group (overrides the root coordinate)")
	cmd.Flags().StringVar(&opts.name, "name", "", "project name (overrides the root coordinate)")
	cmd.Flags().StringVar(&opts.version, "version", "", "project version (overrides the root coordinate)")
	cmd.Flags().StringVar(&opts.docName, "doc-name", "", "document name (default: project name)")
	cmd.Flags().StringVar(&opts.namespaceBase, "namespace-base", "", "URL prefix of the document namespace")
	cmd.Flags().BoolVar(&opts.uuidNamespace, "uuid-namespace", false, "append a deterministic UUID to the namespace")
	cmd.Flags().StringVar(&opts.configuration, "configuration", "", "Gradle configuration to read (default: runtimeClasspath)")
	cmd.Flags().BoolVar(&opts.includeDev, "include-dev", false, "include development dependencies")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "detailed labels in dot and svg output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even when cached")

	_ = cmd.RegisterFlagCompletionFunc("type", completeTypes)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["json"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// options merges the flags that were set on cmd over the config values.
func (o *generateOpts) options(cmd *cobra.Command, cfg *Config, path string) pipeline.Options {
	opts := cfg.pipelineOptions(path)
	opts.Type = o.typ
	opts.Formats = o.formats
	opts.Detailed = o.detailed
	opts.Refresh = o.refresh

	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("group", &opts.Project.Group, o.group)
	set("name", &opts.Project.Name, o.name)
	set("version", &opts.Project.Version, o.version)
	set("doc-name", &opts.Name, o.docName)
	set("namespace-base", &opts.NamespaceBase, o.namespaceBase)
	set("configuration", &opts.Configuration, o.configuration)
	if flags.Changed("uuid-namespace") {
		opts.UUIDNamespace = o.uuidNamespace
	}
	if flags.Changed("include-dev") {
		opts.IncludeDev = o.includeDev
	}
	return opts
}

func (c *CLI) runGenerate(cmd *cobra.Command, cfg *Config, inputs []string, o *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	p := newPrinter(cmd)

	targets, err := outputPaths(inputs, o.formats, o.output)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, cfg, o.noCache)
	defer runner.Close()

	// Inputs run one after another, each with its own document.
	for _, input := range inputs {
		prog := newProgress(logger)
		res, err := runner.Execute(ctx, o.options(cmd, cfg, input))
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		for _, format := range o.formats {
			if err := writeArtifact(cmd.OutOrStdout(), targets[input][format], res.Artifacts[format]); err != nil {
				return err
			}
		}

		if res.CacheHit {
			prog.done("loaded from cache", "input", input)
		} else {
			prog.done("generated", "input", input,
				"packages", res.Stats.Packages, "relationships", res.Stats.Relationships)
		}
		if toStdout(targets, input, o.formats) {
			continue
		}
		for _, format := range o.formats {
			p.file(targets[input][format])
		}
	}
	return nil
}

// outputPaths decides where each (input, format) artifact goes. An empty
// path means stdout.
//
//   - one input, one format: --output, or stdout
//   - one input, several formats: <base>.<format>, base from --output or input
//   - several inputs: <dir>/<stem>.sbom.<format>, dir from --output or input
func outputPaths(inputs, formats []string, output string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(inputs))
	seen := make(map[string]string)

	for _, input := range inputs {
		out[input] = make(map[string]string, len(formats))
		for _, format := range formats {
			var path string
			switch {
			case len(inputs) == 1 && len(formats) == 1:
				path = output
			case len(inputs) == 1:
				path = basePath(output, input) + "." + format
			default:
				dir := output
				if dir == "" {
					dir = filepath.Dir(input)
				}
				path = filepath.Join(dir, stem(input)+outputSuffix+"."+format)
			}
			if prev, dup := seen[path]; dup && path != "" {
				return nil, errs.New(errs.ErrCodeInvalidInput, "%s and %s would both write %s", prev, input, path)
			}
			seen[path] = input
			out[input][format] = path
		}
	}
	return out, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input and adds the sbom suffix.
// If output has a format extension (.json, .svg, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return filepath.Join(filepath.Dir(input), stem(input)+outputSuffix)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func toStdout(targets map[string]map[string]string, input string, formats []string) bool {
	return len(formats) == 1 && targets[input][formats[0]] == ""
}

// writeArtifact writes data to path, or to stdout when path is empty.
func writeArtifact(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
