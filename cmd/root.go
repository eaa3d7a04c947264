package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dealerbot",
	Short: "dealerbot — dealership agent tools and Islamic financing calculator",
	Long: "dealerbot serves the dealership tool suite: Murabaha financing calculations,\n" +
		"CMS vehicle catalogue lookups, and the test drive booking flow.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
}
