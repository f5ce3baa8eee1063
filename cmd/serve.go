package cmd

import (
	"os"

	"difydsl/internal/mcpserver"
	"difydsl/pkg/logging"

	"github.com/spf13/cobra"
)

// newServeCmd creates the Cobra command for running the MCP server.
// The server speaks the MCP protocol on stdin/stdout, so all logging goes
// to stderr.
func newServeCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run the MCP server on stdio. The server exposes workflow validation and
construction tools to MCP clients such as coding agents. It blocks until
the client closes the connection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelInfo
			if debug {
				level = logging.LevelDebug
			}
			logging.Init(level, os.Stderr)

			server := mcpserver.New(GetVersion())
			return server.Start(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}
