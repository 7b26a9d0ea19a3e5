package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lossrun/internal/export"
	"github.com/ppiankov/lossrun/internal/model"
	"github.com/ppiankov/lossrun/internal/pipeline"
)

var (
	outputDir      string
	oracleProvider string
	oracleModel    string
	callDelay      time.Duration
	noCache        bool
	noJSON         bool
	extractTimeout time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract claim records from a single loss-run document",
	Long: `Extract processes one loss-run document (.txt or .pdf):
- Detect every line of business present (AUTO, GENERAL LIABILITY, WC)
- Extract claim rows per detected LOB via the configured oracle
- Fall back to keyword and tabular heuristics when the oracle is
  unavailable or off-contract
- Write per-LOB XLSX workbooks and a combined result.xlsx

Example:
  lossrun extract acme_loss_run.txt
  lossrun extract acme_loss_run.pdf --provider openai --model gpt-4o-mini
  lossrun extract acme_loss_run.txt --provider ollama --model llama3.1:8b --out ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	registerRunFlags(extractCmd)
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 10*time.Minute, "overall processing timeout")
}

// registerRunFlags adds the flags shared by extract and batch.
func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outputDir, "out", "", "output directory (default from config: lossrun-results)")
	cmd.Flags().StringVar(&oracleProvider, "provider", "", "oracle provider (openai, anthropic, ollama; empty = heuristics only)")
	cmd.Flags().StringVar(&oracleModel, "model", "", "oracle model name")
	cmd.Flags().DurationVar(&callDelay, "delay", -1, "fixed delay between oracle calls (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the oracle response cache")
	cmd.Flags().BoolVar(&noJSON, "no-json", false, "skip the rows.json dump")
}

// buildRunConfig folds the shared flags into the loaded configuration.
func buildRunConfig(cmd *cobra.Command) (model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("provider") {
		cfg.Oracle.Provider = oracleProvider
	}
	if oracleModel != "" {
		cfg.Oracle.Model = oracleModel
	}
	if callDelay >= 0 {
		cfg.Pacing.CallDelay = callDelay
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noJSON {
		cfg.Output.JSON = false
	}
	if err := resolveOracleEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	rows, err := p.ProcessFile(ctx, path)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if err := writeOutputs(cfg, rows); err != nil {
		return err
	}
	printSummary(rows, cfg.Output.Dir)
	return nil
}

// writeOutputs writes the workbooks and, unless disabled, the JSON dump.
func writeOutputs(cfg model.Config, rows map[model.LOB][]model.OutputRow) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := export.WriteAll(cfg.Output.Dir, rows); err != nil {
		return err
	}
	if cfg.Output.JSON {
		if err := export.WriteJSON(cfg.Output.Dir, rows); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(rows map[model.LOB][]model.OutputRow, dir string) {
	fmt.Fprintf(os.Stderr, "\nProcessing summary:\n")
	for _, lob := range model.AllLOBs {
		fmt.Fprintf(os.Stderr, "  %s claims: %d\n", lob.Key(), len(rows[lob]))
	}
	fmt.Fprintf(os.Stderr, "  Output directory: %s\n", dir)
}
