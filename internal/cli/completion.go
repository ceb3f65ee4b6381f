package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for modcheck.

To load completions:

Bash:
  $ source <(modcheck completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ modcheck completion bash > /etc/bash_completion.d/modcheck
  # macOS:
  $ modcheck completion bash > $(brew --prefix)/etc/bash_completion.d/modcheck

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ modcheck completion zsh > "${fpath[1]}/_modcheck"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ modcheck completion fish | source

  # To load completions for each session, execute once:
  $ modcheck completion fish > ~/.config/fish/completions/modcheck.fish

PowerShell:
  PS> modcheck completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> modcheck completion powershell > modcheck.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
