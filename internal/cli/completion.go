package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tratzlaff/sbomgen/pkg/deps/languages"
	"github.com/tratzlaff/sbomgen/pkg/pipeline"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for sbomgen.

  $ source <(sbomgen completion bash)
  $ sbomgen completion zsh > "${fpath[1]}/_sbomgen"
  $ sbomgen completion fish > ~/.config/fish/completions/sbomgen.fish
  PS> sbomgen completion powershell | Out-String | Invoke-Expression

Completions cover subcommands, flags, input types (--type) and output
formats (--format).`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeTypes offers the input types accepted by --type.
func completeTypes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return languages.Types(), cobra.ShellCompDirectiveNoFileComp
}

// completeFormats offers output formats. --format takes a comma list, so
// the formats not yet listed are offered after the last comma.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done := map[string]bool{}
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		for _, f := range strings.Split(toComplete[:i], ",") {
			done[strings.TrimSpace(f)] = true
		}
	}

	var out []string
	for f := range pipeline.ValidFormats {
		if !done[f] {
			out = append(out, prefix+f)
		}
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
