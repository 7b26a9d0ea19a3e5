package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lossrun/internal/export"
	"github.com/ppiankov/lossrun/internal/model"
)

var consolidateOut string

// consolidateCmd represents the consolidate command
var consolidateCmd = &cobra.Command{
	Use:   "consolidate <dir>",
	Short: "Regroup existing XLSX loss-run workbooks by line of business",
	Long: `Consolidate reads previously exported .xlsx workbooks from a directory,
detects each workbook's line of business from its file name, maps the
first sheet's columns onto the standard schema and rewrites the usual
per-LOB and combined workbooks.

Example:
  lossrun consolidate ./carrier-exports
  lossrun consolidate ./carrier-exports --out ./consolidated`,
	Args: cobra.ExactArgs(1),
	RunE: runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)
	consolidateCmd.Flags().StringVar(&consolidateOut, "out", "lossrun-results", "output directory")
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	rows, err := export.Consolidate(args[0], consolidateOut)
	if err != nil {
		return fmt.Errorf("consolidate failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nConsolidation summary:\n")
	for _, lob := range model.AllLOBs {
		fmt.Fprintf(os.Stderr, "  %s claims: %d\n", lob.Key(), len(rows[lob]))
	}
	fmt.Fprintf(os.Stderr, "  Output directory: %s\n", consolidateOut)
	return nil
}
