package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the month into the report workbook",
	Long: `export validates the month, fills the report template and writes
SURNAME-Rilevazione_estratti_MM-YYYY.xlsx. On success the month's entries are
cleared; the workbook stays available through "rileva history".`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output directory (default export.output_dir)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a := mustApp(ctx)
	m := a.month()

	out := exportOut
	if out == "" {
		out = a.cfg.Export.OutputDir
	}

	outcome, err := a.svc.Export(ctx, m, out)
	if err != nil {
		fail(err)
	}
	if outcome.Degraded {
		fmt.Fprintf(os.Stderr, "Warning: template unavailable (%v); values were written to a blank workbook.\n", outcome.TemplateErr)
	}
	fmt.Printf("Exported %s to %s.\n", m, outcome.Path)
	return nil
}
