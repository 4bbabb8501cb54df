package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/report"
	"github.com/Tiliavir/rileva/internal/timecalc"
)

var (
	entryActivity string
	entryExtract  string
	entryClient   string
	entryNotes    string
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Add, remove and edit day entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add <YYYY-MM-DD> <code> <hours>",
	Short: "Add a day entry",
	Args:  cobra.ExactArgs(3),
	RunE:  runEntryAdd,
}

var entryRmCmd = &cobra.Command{
	Use:   "rm <n>",
	Short: "Remove entry number n",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryRm,
}

var entrySetCmd = &cobra.Command{
	Use:   "set <n> <field> <value>",
	Short: "Set one field of entry n (date, code, activity, hours, notes, extract, client)",
	Args:  cobra.ExactArgs(3),
	RunE:  runEntrySet,
}

var entryTasksCmd = &cobra.Command{
	Use:   "tasks <n> <CODE:HOURS[:EXTRACT[:CLIENT]]>...",
	Short: "Split entry n into tasks",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEntryTasks,
}

func init() {
	entryAddCmd.Flags().StringVar(&entryActivity, "activity", "", "Free-text activity")
	entryAddCmd.Flags().StringVar(&entryExtract, "extract", "", "Extract id")
	entryAddCmd.Flags().StringVar(&entryClient, "client", "", "Client name")
	entryAddCmd.Flags().StringVar(&entryNotes, "notes", "", "Notes")

	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryRmCmd)
	entryCmd.AddCommand(entrySetCmd)
	entryCmd.AddCommand(entryTasksCmd)
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	day, err := timecalc.ParseDay(args[0])
	if err != nil {
		fail(fmt.Errorf("%w: %v", report.ErrInvalidValue, err))
	}
	hours, err := parseHours(args[2])
	if err != nil {
		fail(err)
	}

	a := mustApp(context.Background())
	m := model.MonthKeyOf(day)
	if monthFlag != "" {
		m = a.month()
	}

	e := model.DayEntry{Date: day, Notes: entryNotes}
	e.SetTasks([]model.Task{{
		Code:     args[1],
		Activity: entryActivity,
		Extract:  entryExtract,
		Client:   entryClient,
		Hours:    hours,
		Notes:    entryNotes,
	}})
	entries, err := a.svc.AddEntry(m, e)
	if err != nil {
		fail(err)
	}
	printEntries(m, entries)
	return nil
}

func runEntryRm(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		fail(err)
	}
	a := mustApp(context.Background())
	m := a.month()
	entries, err := a.svc.RemoveEntry(m, index)
	if err != nil {
		fail(err)
	}
	printEntries(m, entries)
	return nil
}

func runEntrySet(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		fail(err)
	}
	a := mustApp(context.Background())
	m := a.month()
	entries, err := a.svc.UpdateEntry(m, index, args[1], args[2])
	if err != nil {
		fail(err)
	}
	printEntries(m, entries)
	return nil
}

func runEntryTasks(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		fail(err)
	}
	tasks := make([]model.Task, 0, len(args)-1)
	for _, raw := range args[1:] {
		t, err := parseTask(raw)
		if err != nil {
			fail(err)
		}
		tasks = append(tasks, t)
	}

	a := mustApp(context.Background())
	m := a.month()
	entries, err := a.svc.SetTasks(m, index, tasks)
	if err != nil {
		fail(err)
	}
	printEntries(m, entries)
	return nil
}
