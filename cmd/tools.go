package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qmotors/dealerbot-go/internal/config"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools and their schemas",
	RunE:  runTools,
}

var toolsJSON bool

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Print full schemas as JSON")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.ApplyEnv(&cfg)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	if toolsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(registry.Schemas())
	}

	for _, t := range registry.All() {
		fmt.Printf("%-32s %s\n", t.Name(), t.Description())
	}
	return nil
}
