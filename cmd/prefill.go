package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var prefillForce bool

var prefillCmd = &cobra.Command{
	Use:   "prefill",
	Short: "Fill every workday of the month with 8h of D",
	Args:  cobra.NoArgs,
	RunE:  runPrefill,
}

func init() {
	prefillCmd.Flags().BoolVar(&prefillForce, "force", false, "Replace existing entries")
}

func runPrefill(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	m := a.month()

	existing, err := a.svc.Load(m)
	if err != nil {
		fail(err)
	}
	if len(existing) > 0 && !prefillForce {
		fmt.Fprintf(os.Stderr, "%s already has %d entries; use --force to replace them.\n", m, len(existing))
		os.Exit(1)
	}

	entries, err := a.svc.Prefill(m)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Prefilled %d workdays of %s.\n", len(entries), m)
	return nil
}
