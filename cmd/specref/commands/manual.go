package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/manual"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/sym"
)

// ManualCmd prints the reference manual
var ManualCmd = &cobra.Command{
	Use:   "manual [kind]",
	Short: sym.Manual + " Print the reference manual as Markdown",
	Long: sym.Manual + ` manual - Print the reference manual as Markdown

Renders one source of the reference registry. The kind argument restricts
output to one heading: constant, variable, macro, function, keyword,
snippet or member. "all" (the default) renders every kind.

Examples:
  specref manual                                        # whole built-in database
  specref manual macro                                  # built-in macros only
  specref manual --source spec://system/snippet.md      # compiled snippets
  specref manual member --source spec://system/mnemonic-motor.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runManual,
}

var manualSource string

func init() {
	ManualCmd.Flags().StringVar(&manualSource, "source", string(ref.SourceBuiltin), "Source URI to render")
}

func runManual(cmd *cobra.Command, args []string) error {
	label := sym.AllLabel
	if len(args) == 1 {
		label = args[0]
	}
	if label != sym.AllLabel {
		if _, ok := ref.ParseKindLabel(label); !ok {
			return errors.WithHint(
				errors.NewInvalidRequestError("unknown reference kind %q", label),
				"run specref manual without arguments to see every kind",
			)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src := ref.Source(manualSource)
	if src == ref.SourceBuiltin {
		if err := requireBuiltin(cfg); err != nil {
			return err
		}
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	markdown, err := manual.Render(context.Background(), reg.Store(), manual.URI(src, label))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), markdown)
	return nil
}
