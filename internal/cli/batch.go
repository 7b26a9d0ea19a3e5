package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lossrun/internal/pipeline"
)

var (
	batchPattern string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract claim records from every document in a directory",
	Long: `Batch processes all matching documents in a directory, one at a time:
- Each file is classified and extracted like 'lossrun extract'
- A file that fails to load or process is logged and skipped
- Rows from all files are merged per LOB into one set of workbooks

Example:
  lossrun batch ./loss-runs
  lossrun batch ./loss-runs --pattern '*.pdf' --provider anthropic
  lossrun batch ./loss-runs --out ./results --delay 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runBatchCmd,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	registerRunFlags(batchCmd)
	batchCmd.Flags().StringVar(&batchPattern, "pattern", "*.txt", "file pattern for directory processing")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for batch processing")
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("input path: %w", err)
	}

	var paths []string
	if info.IsDir() {
		paths, err = filepath.Glob(filepath.Join(dir, batchPattern))
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", batchPattern, err)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files matching %q in %s", batchPattern, dir)
		}
		sort.Strings(paths)
	} else {
		paths = []string{dir}
	}

	fmt.Fprintf(os.Stderr, "Found %d file(s) to process\n", len(paths))

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	batch, err := p.ProcessBatch(ctx, paths)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if err := writeOutputs(cfg, batch.Rows); err != nil {
		return err
	}

	printSummary(batch.Rows, cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Files processed: %d\n", batch.Processed)
	if batch.Failed > 0 {
		fmt.Fprintf(os.Stderr, "  Files failed: %d\n", batch.Failed)
	}
	return nil
}
