package commands

import (
	"github.com/spf13/cobra"

	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/sym"
)

// SnippetsCmd lists the compiled snippets
var SnippetsCmd = &cobra.Command{
	Use:   "snippets",
	Short: sym.Snippet + " List compiled command snippets",
	Long: sym.Snippet + ` snippets - List compiled command snippets

Shows the stock templates plus editor.code_snippets, compiled against the
configured motor and counter mnemonics. Templates that do not parse are
left out; run with -vv to see which.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Snippets do not need the built-in database
		reg, err := openRegistry(withoutBuiltin(cfg))
		if err != nil {
			return err
		}

		snippets, _ := reg.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
		var rows []entryRow
		for _, ne := range snippets.Entries() {
			rows = append(rows, entryRow{
				Name:        ne.Name,
				Signature:   ne.Entry.Signature,
				Description: ne.Entry.Description,
				Snippet:     ne.Entry.Snippet,
			})
		}
		v := verbosity(cmd)
		reportSummary(cmd.ErrOrStderr(), v, "snippets", len(rows))
		reportSkipped(cmd.ErrOrStderr(), v, "editor.code_snippets", skippedTemplates(cfg.Editor.CodeSnippets))
		return writeEntries(cmd.OutOrStdout(), snippetsFormat, rows)
	},
}

var snippetsFormat string

func init() {
	SnippetsCmd.Flags().StringVar(&snippetsFormat, "format", "table", "Output format: table, json, yaml, toml")
}
