package commands

import (
	"github.com/spf13/cobra"

	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/registry"
	"github.com/fujidana/specref/server"
)

// MCPCmd serves the reference registry as MCP tools
var MCPCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve reference lookups as MCP tools over stdio",
	Long: `Expose the reference registry to MCP clients over stdin/stdout.

Tools:
  spec_lookup    Look up a symbol by exact name
  spec_manual    Render the reference manual, optionally one kind
  spec_snippets  List the compiled command snippets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := logger.Logger.Named("mcp")
		reg := registry.New(logger.Logger.Named("registry"))
		go func() {
			if err := reg.ApplyConfig(cfg); err != nil {
				log.Errorw("Initial configuration failed", logger.FieldError, err)
			}
		}()

		return server.NewMCPServer(reg, registry.RetryPolicyFor(cfg), log).Serve()
	},
}
