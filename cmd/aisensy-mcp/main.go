// aisensy-mcp exposes the AiSensy partner and direct APIs as MCP tools.
//
// Usage:
//
//	aisensy-mcp serve --api partner             # stdio MCP server
//	aisensy-mcp serve --api direct --transport http --addr :8080
//	aisensy-mcp tools --api direct              # list tools
//	aisensy-mcp call --api partner get_partner_details
//	aisensy-mcp token hash <token>              # bcrypt hash for server.auth.tokens
//	aisensy-mcp token issue --client-id ci --ttl 24h
//	aisensy-mcp version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	api        string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "aisensy-mcp",
		Short:        "MCP tool server for the AiSensy WhatsApp APIs",
		Long:         "aisensy-mcp exposes the AiSensy partner (business onboarding) and direct APIs as MCP tools over stdio or HTTP.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default .aisensy-mcp.yaml in the working or home directory)")
	rootCmd.PersistentFlags().StringVar(&g.api, "api", apiPartner, "API family: partner or direct")

	rootCmd.AddCommand(serveCmd(g))
	rootCmd.AddCommand(toolsCmd(g))
	rootCmd.AddCommand(callCmd(g))
	rootCmd.AddCommand(tokenCmd(g))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aisensy-mcp %s\n", version)
		},
	}
}
