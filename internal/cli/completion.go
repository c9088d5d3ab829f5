package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/wavetower/pkg/pipeline"
)

// documentExts are the extensions offered when completing document paths.
var documentExts = []string{"json", "json5", "yaml", "yml"}

// completionCommand prints a shell script that completes wavetower
// subcommands, document paths and the render flag values.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for wavetower.

Besides subcommands, the script completes WaveJSON document paths
(.json, .json5, .yaml, .yml) and the values of --format, --font and --view.

  $ source <(wavetower completion bash)
  $ wavetower completion zsh > "${fpath[1]}/_wavetower"
  $ wavetower completion fish > ~/.config/fish/completions/wavetower.fish
  PS> wavetower completion powershell | Out-String | Invoke-Expression

Zsh needs compinit enabled; start a new shell after installing.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeDocuments restricts positional completion to WaveJSON documents.
func completeDocuments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return documentExts, cobra.ShellCompDirectiveFilterFileExt
}

// registerRenderCompletions completes the fixed-choice render flags.
func registerRenderCompletions(cmd *cobra.Command) {
	fixed := map[string][]string{
		"format": {pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON},
		"font":   {pipeline.FontHelvetica, pipeline.FontGo},
		"view":   {pipeline.ViewWave, pipeline.ViewNodelink},
	}
	for flag, values := range fixed {
		_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
}
