package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/rileva/internal/model"
)

var (
	extractDescription string
	extractClient      string
	extractExpected    float64
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Manage the extract catalog",
}

var extractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List extracts",
	Args:  cobra.NoArgs,
	RunE:  runExtractList,
}

var extractAddCmd = &cobra.Command{
	Use:   "add <id> <code>",
	Short: "Add or replace an extract",
	Args:  cobra.ExactArgs(2),
	RunE:  runExtractAdd,
}

var extractRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an extract",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractRm,
}

func init() {
	extractAddCmd.Flags().StringVar(&extractDescription, "description", "", "Description")
	extractAddCmd.Flags().StringVar(&extractClient, "client", "", "Client name")
	extractAddCmd.Flags().Float64Var(&extractExpected, "expected-days", 0, "Expected days per month")

	extractCmd.AddCommand(extractListCmd)
	extractCmd.AddCommand(extractAddCmd)
	extractCmd.AddCommand(extractRmCmd)
}

func runExtractList(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	list, err := a.svc.Extracts()
	if err != nil {
		fail(err)
	}
	if len(list) == 0 {
		fmt.Println("No extracts.")
		return nil
	}
	cat := a.svc.Catalog()
	for _, ex := range list {
		fmt.Printf("%-12s %-4s %-12s %-20s expected %s\n",
			ex.ID, ex.Code, ex.Client, ex.Description, formatDays(cat.ExpectedDaysFor(ex)))
	}
	return nil
}

func runExtractAdd(cmd *cobra.Command, args []string) error {
	ex := model.Extract{
		ID:          args[0],
		Code:        args[1],
		Description: extractDescription,
		Client:      extractClient,
	}
	if cmd.Flags().Changed("expected-days") {
		v := extractExpected
		ex.ExpectedDays = &v
	}
	a := mustApp(context.Background())
	if _, err := a.svc.AddExtract(ex); err != nil {
		fail(err)
	}
	fmt.Printf("Saved extract %s.\n", args[0])
	return nil
}

func runExtractRm(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	removed, err := a.svc.RemoveExtract(args[0])
	if err != nil {
		fail(err)
	}
	if !removed {
		fmt.Fprintf(os.Stderr, "No extract %q.\n", args[0])
		os.Exit(1)
	}
	fmt.Printf("Removed extract %s.\n", args[0])
	return nil
}
