package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/rileva/internal/model"
)

var (
	monthFormat string
	monthStored bool
)

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Select a month and list its entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMonth,
}

func init() {
	monthCmd.Flags().StringVar(&monthFormat, "format", "md", "Output format: md, csv, json")
	monthCmd.Flags().BoolVar(&monthStored, "stored", false, "List the months that have saved entries")
}

func runMonth(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())

	if monthStored {
		months, err := a.store.StoredMonths()
		if err != nil {
			fail(err)
		}
		if len(months) == 0 {
			fmt.Println("No saved months.")
		}
		for _, k := range months {
			fmt.Println(k)
		}
		return nil
	}

	var m model.MonthKey
	if len(args) == 1 {
		var err error
		m, err = model.ParseMonthKey(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := a.svc.SelectMonth(m); err != nil {
			fail(err)
		}
	} else {
		m = a.month()
	}

	entries, err := a.svc.Load(m)
	if err != nil {
		fail(err)
	}

	switch monthFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "csv":
		printEntriesCSV(entries)
	default: // md
		printEntries(m, entries)
	}
	return nil
}
