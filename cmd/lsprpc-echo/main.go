// Command lsprpc-echo is a runnable demonstration server built on the
// rpc/lsptypes/transport/lspserver stack: it registers a handful of
// lifecycle and hover methods and serves them over stdio or TCP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lsprpc-echo",
		Short: "A minimal LSP-shaped JSON-RPC server built on the lsprpc toolkit",
	}
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lsprpc-echo version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
