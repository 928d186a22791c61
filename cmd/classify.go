package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/civicgrid/complaint-service/internal/application"
	"github.com/civicgrid/complaint-service/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify complaint text from the command line without persisting it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	engine := application.LoadEngine(cfg)
	result := engine.Route(strings.Join(args, " "), "")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
