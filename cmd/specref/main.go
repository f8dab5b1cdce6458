package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fujidana/specref/am"
	"github.com/fujidana/specref/cmd/specref/commands"
	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
)

var rootCmd = &cobra.Command{
	Use:   "specref",
	Short: "specref - spec reference language server",
	Long: `specref - reference symbols and command snippets for the __spec__
instrument-control language.

specref serves completion, hover and the reference manual to editors over
the Language Server Protocol, and the same data to agents over MCP.

Available commands:
  serve      - Serve LSP over stdio, or over WebSocket with --ws
  mcp        - Serve MCP tools over stdio
  manual     - Print the reference manual as Markdown
  snippets   - List compiled command snippets
  mnemonics  - List configured motor or counter mnemonics
  am         - Show and validate configuration ("I am")
  version    - Show version information

Examples:
  specref serve                   # LSP on stdio for an editor
  specref serve --ws :7461        # LSP on ws://localhost:7461/lsp
  specref manual macro            # Built-in macros as Markdown
  specref am where                # Where each setting comes from`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")

		if cfg, err := am.Load(); err == nil {
			logger.SetTheme(cfg.GetServerLogTheme())
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	// stdout belongs to the protocol streams and to command output
	pterm.SetDefaultOutput(os.Stderr)

	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.MCPCmd)
	rootCmd.AddCommand(commands.ManualCmd)
	rootCmd.AddCommand(commands.SnippetsCmd)
	rootCmd.AddCommand(commands.MnemonicsCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
