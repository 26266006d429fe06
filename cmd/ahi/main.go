package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func newRootCmd() *cobra.Command {
	var verbose int

	rootCmd := &cobra.Command{
		Use:   "ahi",
		Short: "Grammar tools built on parsec",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeat for debug traces)")

	rootCmd.AddCommand(newEbnfCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
