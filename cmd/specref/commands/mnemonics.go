package commands

import (
	"github.com/spf13/cobra"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/ref/mnemonic"
	"github.com/fujidana/specref/sym"
)

// MnemonicsCmd lists configured mnemonics
var MnemonicsCmd = &cobra.Command{
	Use:   "mnemonics [motors|counters]",
	Short: sym.Member + " List configured motor or counter mnemonics",
	Long: sym.Member + ` mnemonics - List configured motor or counter mnemonics

Reads mnemonic.motors or mnemonic.counters ("name # description" lines)
and shows the entries that parse. Names longer than seven characters or
with a non-identifier first character are left out; run with -vv to see
which.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{mnemonic.Motor.Section, mnemonic.Counter.Section},
	RunE: func(cmd *cobra.Command, args []string) error {
		class := mnemonic.Motor
		if len(args) == 1 {
			found := false
			for _, c := range mnemonic.Classes {
				if c.Section == args[0] {
					class, found = c, true
				}
			}
			if !found {
				return errors.NewInvalidRequestError("unknown mnemonic section %q (supported: motors, counters)", args[0])
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := openRegistry(withoutBuiltin(cfg))
		if err != nil {
			return err
		}

		entries, _ := reg.Store().Entries(class.Source, ref.KindEnum)
		var rows []entryRow
		for _, ne := range entries.Entries() {
			rows = append(rows, entryRow{
				Name:        ne.Name,
				Signature:   ne.Entry.Signature,
				Description: ne.Entry.Description,
			})
		}
		v := verbosity(cmd)
		reportSummary(cmd.ErrOrStderr(), v, class.Section, len(rows))
		reportSkipped(cmd.ErrOrStderr(), v, "mnemonic."+class.Section, skippedMnemonics(cfg.MnemonicLines(class.Section)))
		return writeEntries(cmd.OutOrStdout(), mnemonicsFormat, rows)
	},
}

var mnemonicsFormat string

func init() {
	MnemonicsCmd.Flags().StringVar(&mnemonicsFormat, "format", "table", "Output format: table, json, yaml, toml")
}
