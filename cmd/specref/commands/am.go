package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fujidana/specref/am"
	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/ref/mnemonic"
	"github.com/fujidana/specref/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.Config + " Show and validate specref configuration",
	Long: sym.Config + ` am - Show and validate specref configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/specref/config.toml)
3. User config (~/.specref/config.toml)
4. Project config (nearest specref.toml, searching up directories)
5. Environment variables (SPECREF_* prefix, e.g. SPECREF_REFERENCE_PATH)

Examples:
  specref am show                    # Show current configuration
  specref am show --format json      # Show configuration in JSON format
  specref am validate                # Validate current configuration
  specref am where                   # Show where each setting comes from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective specref configuration from all sources",
	RunE:  runAmShow,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate the wait budget and log theme, and report skipped mnemonic lines",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and the source of every setting.

Lists the files that were found and, for each setting, whether it comes
from a default, a file or an environment variable.`,
	RunE: runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	if configFormat == "toml" || configFormat == "yaml" {
		fmt.Fprintln(out, "# specref configuration")
	}
	return writeStructured(out, configFormat, cfg)
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	if cfg.Reference.Path != "" {
		if _, err := os.Stat(cfg.Reference.Path); err != nil {
			pterm.Warning.Printf("reference.path %s is not readable: %v\n", cfg.Reference.Path, err)
		}
	} else {
		pterm.Warning.Println("reference.path is not set; only mnemonics and snippets will be served")
	}

	reg, err := openRegistry(withoutBuiltin(cfg))
	if err != nil {
		return err
	}
	for _, class := range mnemonic.Classes {
		lines := cfg.MnemonicLines(class.Section)
		if kept := len(reg.Names(class)); kept < len(lines) {
			pterm.Warning.Printf("mnemonic.%s: %d of %d lines skipped or duplicated\n", class.Section, len(lines)-kept, len(lines))
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [SYSTEM]   %s\n", am.SystemConfigPath)
	fmt.Fprintf(out, "  3. [USER]     ~/%s/config.toml\n", am.UserConfigDir)
	fmt.Fprintf(out, "  4. [PROJECT]  ./%s (searches up directories)\n", am.ProjectConfigName)
	fmt.Fprintf(out, "  5. [ENV]      %s_* environment variables\n", am.EnvPrefix)
	fmt.Fprintln(out)

	if len(intro.ConfigFiles) == 0 {
		fmt.Fprintln(out, "No configuration files found.")
	} else {
		fmt.Fprintln(out, "Files found:")
		for _, f := range intro.ConfigFiles {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}
	fmt.Fprintln(out)

	// Group settings by source file so each file's settings print together
	type fileGroup struct {
		source   am.ConfigSource
		path     string
		settings []am.SettingInfo
	}
	groups := make(map[string]*fileGroup)
	for _, setting := range intro.Settings {
		key := setting.SourcePath
		if key == "" || setting.Source == am.SourceEnvironment {
			key = string(setting.Source)
		}
		if g, ok := groups[key]; ok {
			g.settings = append(g.settings, setting)
		} else {
			groups[key] = &fileGroup{source: setting.Source, path: setting.SourcePath, settings: []am.SettingInfo{setting}}
		}
	}

	sourceOrder := []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceEnvironment,
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range sourceOrder {
		var ordered []*fileGroup
		for _, g := range groups {
			if g.source == source {
				ordered = append(ordered, g)
			}
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].path < ordered[j].path })

		for _, g := range ordered {
			switch source {
			case am.SourceDefault:
				fmt.Fprintf(out, "\n%s: %d settings\n", source, len(g.settings))
			case am.SourceEnvironment:
				fmt.Fprintf(out, "\n%s: %d settings from environment variables\n", source, len(g.settings))
			default:
				fmt.Fprintf(out, "\n%s: %d settings from %s\n", source, len(g.settings), g.path)
			}

			for _, setting := range g.settings {
				valueStr := fmt.Sprintf("%v", setting.Value)
				if len(valueStr) > 50 {
					valueStr = valueStr[:47] + "..."
				}
				if source == am.SourceEnvironment {
					fmt.Fprintf(out, "  %s = %s (%s)\n", setting.Key, valueStr, setting.SourcePath)
				} else {
					fmt.Fprintf(out, "  %s = %s\n", setting.Key, valueStr)
				}
			}
		}
	}
	return nil
}
