package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyOut string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past exports and save them again",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past exports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historySaveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Write a past export to disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistorySave,
}

func init() {
	historySaveCmd.Flags().StringVar(&historyOut, "out", "", "Output directory (default export.output_dir)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySaveCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	list, err := a.svc.History()
	if err != nil {
		fail(err)
	}
	if len(list) == 0 {
		fmt.Println("No exports yet.")
		return nil
	}
	for _, rec := range list {
		fmt.Printf("%s  %s  %-7s %s\n", rec.ID, rec.Date, rec.Month, rec.Filename)
	}
	return nil
}

func runHistorySave(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	out := historyOut
	if out == "" {
		out = a.cfg.Export.OutputDir
	}
	path, err := a.svc.SaveHistoryFile(args[0], out)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Saved %s.\n", path)
	return nil
}
