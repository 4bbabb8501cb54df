package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var monthFlag string

var rootCmd = &cobra.Command{
	Use:   "rileva",
	Short: "Rileva – monthly work-allocation report",
	Long: `rileva records a month of activity codes and hours, checks the month
against the workday calendar and fills the "Rilevazione estratti" workbook.
All data is stored as human-readable JSON files in ~/.rileva/.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&monthFlag, "month", "m", "", "Month to work on (YYYY-MM); defaults to the selected month")

	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(prefillCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(holidayCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}
