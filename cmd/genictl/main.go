package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "genictl",
		Short: "genictl - generate, tune and export color palettes",
		Long: `genictl drives the palette engine from the command line.

It reads the same environment (or .env file) as the server, so generate
uses whichever provider AI_PROVIDER names and falls back to the built-in
palette when the provider is unreachable.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(
		newGenerateCmd(),
		newNameCmd(),
		newAdjustCmd(),
		newExportCmd(),
		newHarmoniesCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
