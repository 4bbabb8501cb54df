package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/rileva/internal/holiday"
	"github.com/Tiliavir/rileva/internal/model"
)

var holidayCmd = &cobra.Command{
	Use:   "holiday",
	Short: "Manage public holidays and company closures",
}

var holidayListCmd = &cobra.Command{
	Use:   "list [YYYY-MM]",
	Short: "List the holidays of a month",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHolidayList,
}

var holidayAddCmd = &cobra.Command{
	Use:   "add <YYYY-MM-DD> [reason]",
	Short: "Record a holiday",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHolidayAdd,
}

var holidayRmCmd = &cobra.Command{
	Use:   "rm <YYYY-MM-DD>",
	Short: "Remove the holiday on a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runHolidayRm,
}

var holidayClosuresCmd = &cobra.Command{
	Use:   "closures <year>",
	Short: "Record the usual company closures of a year",
	Args:  cobra.ExactArgs(1),
	RunE:  runHolidayClosures,
}

func init() {
	holidayCmd.AddCommand(holidayListCmd)
	holidayCmd.AddCommand(holidayAddCmd)
	holidayCmd.AddCommand(holidayRmCmd)
	holidayCmd.AddCommand(holidayClosuresCmd)
}

func runHolidayList(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	m := a.month()
	if len(args) == 1 {
		var err error
		if m, err = model.ParseMonthKey(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	list := a.cal.HolidaysForMonth(m.Year(), m.Month())
	if len(list) == 0 {
		fmt.Printf("No holidays in %s.\n", m)
		return nil
	}
	for _, h := range list {
		kind := "company"
		if holiday.IsItalianHoliday(h.Date) {
			kind = "public"
		}
		fmt.Printf("%s  %-8s %s\n", h.Date, kind, h.Reason)
	}
	return nil
}

func runHolidayAdd(cmd *cobra.Command, args []string) error {
	reason := strings.TrimSpace(strings.Join(args[1:], " "))
	if reason == "" {
		reason = holiday.DefaultCompanyReason
	}
	a := mustApp(context.Background())
	res, err := a.cal.AddHoliday(args[0], reason)
	if err != nil {
		fail(err)
	}
	printAddResult(args[0], res)
	return nil
}

func printAddResult(date string, res holiday.AddResult) {
	switch res.Status {
	case holiday.StatusSaved:
		fmt.Printf("Saved holiday %s (%s).\n", res.Holiday.Date, res.Holiday.Reason)
	case holiday.StatusExists:
		fmt.Printf("%s is already a holiday.\n", date)
	default:
		fmt.Printf("Ignored %s: not a valid weekday.\n", date)
	}
}

func runHolidayRm(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	removed, err := a.cal.RemoveHolidayByDate(args[0])
	if err != nil {
		fail(err)
	}
	if !removed {
		fmt.Fprintf(os.Stderr, "No holiday recorded on %s.\n", args[0])
		os.Exit(1)
	}
	fmt.Printf("Removed holiday %s.\n", args[0])
	return nil
}

func runHolidayClosures(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1 {
		fmt.Fprintf(os.Stderr, "invalid year %q\n", args[0])
		os.Exit(1)
	}
	a := mustApp(context.Background())
	results, err := a.cal.CompanyClosures(year)
	if err != nil {
		fail(err)
	}
	saved := 0
	for _, res := range results {
		if res.Status == holiday.StatusSaved {
			fmt.Printf("Saved holiday %s (%s).\n", res.Holiday.Date, res.Holiday.Reason)
			saved++
		}
	}
	fmt.Printf("%d of %d closures of %d recorded.\n", saved, len(results), year)
	return nil
}
