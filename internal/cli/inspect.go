package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
	sbomio "github.com/tratzlaff/sbomgen/pkg/io"
	"github.com/tratzlaff/sbomgen/pkg/pipeline"
	"github.com/tratzlaff/sbomgen/pkg/sbom"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	typ           string
	configuration string
	includeDev    bool
	export        string // write the parsed graph as a JSON tree
}

// inspection is what inspect reports about one input.
type inspection struct {
	input              string
	parser             string
	ecosystem          string
	includesTransitive bool
	graph              deps.Stats
	packages           int
	relationships      int
	cycles             [][2]string
}

func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file...]",
		Short: "Summarize dependency reports without writing documents",
		Long: `Parse dependency reports and show what an SBOM built from them would contain.

For each input, inspect reports how many tree positions the report lists,
how many distinct coordinates they collapse to, the resulting package and
relationship counts, and any relationships that close a dependency cycle.

With --export, the parsed graph of a single input is written as a JSON
dependency tree that "sbomgen generate" reads back.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.export != "" && len(args) != 1 {
				return errs.New(errs.ErrCodeInvalidInput, "--export takes exactly one input")
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return runInspect(cmd, cfg, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.typ, "type", "t", "", "input type (default: detect from filename)")
	cmd.Flags().StringVar(&opts.configuration, "configuration", "", "Gradle configuration to read (default: runtimeClasspath)")
	cmd.Flags().BoolVar(&opts.includeDev, "include-dev", false, "include development dependencies")
	cmd.Flags().StringVar(&opts.export, "export", "", "write the parsed graph as a JSON dependency tree")

	_ = cmd.RegisterFlagCompletionFunc("type", completeTypes)
	return cmd
}

func runInspect(cmd *cobra.Command, cfg *Config, inputs []string, o *inspectOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	var results []inspection
	for _, input := range inputs {
		opts := cfg.pipelineOptions(input)
		opts.Type = o.typ
		opts.Logger = logger
		if cmd.Flags().Changed("configuration") {
			opts.Configuration = o.configuration
		}
		if cmd.Flags().Changed("include-dev") {
			opts.IncludeDev = o.includeDev
		}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return err
		}

		parser, err := pipeline.SelectParser(opts)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		res, err := pipeline.Parse(ctx, parser, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		doc, err := pipeline.Build(ctx, res, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		results = append(results, inspect(input, res, doc))

		if o.export != "" {
			if err := sbomio.ExportTree(&sbomio.Tree{Root: res.Root, Ecosystem: res.Ecosystem}, o.export); err != nil {
				return err
			}
		}
	}

	p := newPrinter(cmd)
	p.line(inspectTable(results))
	for _, r := range results {
		if !r.includesTransitive {
			p.warning("%s lists direct dependencies only", r.input)
		}
		if len(r.cycles) > 0 {
			p.info("%s: %d relationship(s) close a cycle", r.input, len(r.cycles))
			for _, e := range r.cycles {
				p.detail("%s -> %s", e[0], e[1])
			}
		}
	}
	if o.export != "" {
		p.success("Exported dependency tree")
		p.file(o.export)
	}
	return nil
}

func inspect(input string, res *deps.ManifestResult, doc *sbom.Document) inspection {
	return inspection{
		input:              input,
		parser:             res.Type,
		ecosystem:          res.Ecosystem,
		includesTransitive: res.IncludesTransitive,
		graph:              deps.Summarize(res.Root),
		packages:           len(doc.Packages()),
		relationships:      len(doc.Relationships()),
		cycles:             doc.Graph().BackEdges(),
	}
}

func inspectTable(results []inspection) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.input,
			r.parser,
			orDash(r.ecosystem),
			strconv.Itoa(r.graph.Positions),
			strconv.Itoa(r.graph.Collapsed()),
			strconv.Itoa(r.graph.MaxDepth),
			strconv.Itoa(r.packages),
			strconv.Itoa(r.relationships),
			strconv.Itoa(len(r.cycles)),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Input", "Parser", "Ecosystem", "Positions", "Collapsed", "Depth", "Packages", "Relationships", "Cycles").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
