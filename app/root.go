// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tenderdesk",
	Short: "TenderDesk is the web front office for the procurement service",
	Long: `TenderDesk is the web front office for the procurement service.
It provides role-gated screens for user and reference-data administration,
supplier registration review, and the officer, committee, and publication
assignments of requisitions and tenders.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
