package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether the month can be exported",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	m := a.month()
	s, _, err := a.svc.Summary(m)
	if err != nil {
		fail(err)
	}
	if err := s.ExportReady(); err != nil {
		fail(err)
	}
	fmt.Printf("%s is complete: %d workdays declared at 8h.\n", m, s.TotalWorkDays)
	return nil
}
