package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gmaildrafter application
var rootCmd = &cobra.Command{
	Use:   "gmaildrafter",
	Short: "Creates personalized Gmail drafts from Google Sheets",
	Long: `gmaildrafter turns a Google Sheet into a batch of personalized Gmail
drafts. Each data row becomes one draft: template placeholders like {name}
are filled from the row's cells and the recipient comes from the sheet's
email column.

It can run as:
  - An HTTP API server backing the web front end (default)
  - A standalone CLI that drafts directly from a sheet`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gmaildrafter version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gmaildrafter version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newDraftsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
