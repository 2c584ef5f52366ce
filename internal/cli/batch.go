package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/pipeline"
)

var (
	batchTimeout time.Duration
	batchOutput  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple (url, claim) pairs from a file",
	Long: `Batch verifies claims from an input file, one tab-separated
"url<TAB>claim" pair per line. Blank lines and #-comments are skipped,
duplicate pairs are dropped.

Items are processed strictly sequentially to bound load on the shared
embedding engine; a failed item does not stop the batch. Progress is
printed to stderr as each item finishes.

Example:
  forzeo batch claims.tsv
  forzeo batch claims.tsv --output results.json --store-dir ./records
  forzeo batch claims.tsv --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write full batch result JSON to this path")
	batchCmd.Flags().StringVar(&provider, "provider", "", "embedding provider (openai, ollama)")
	batchCmd.Flags().StringVar(&embedModel, "model", "", "embedding model name")
	batchCmd.Flags().StringVar(&storeDir, "store-dir", "", "persist records to this directory (default: in-memory)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt (use only on sources you control)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, err := pipeline.ReadItemsFromFile(file)
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("no items in %s", file)
	}

	cfg := loadConfig()
	cfg.HTTP.RespectRobots = !noRobots
	cfg.Cache.Enabled = !noCache
	if provider != "" {
		cfg.Embedding.Provider = provider
	}
	if embedModel != "" {
		cfg.Embedding.Model = embedModel
	}
	if storeDir != "" {
		cfg.Store.Dir = storeDir
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Fprintf(os.Stderr, "Verifying %d items from %s\n", len(items), file)

	progress := make(chan int)
	done := make(chan struct{})
	go func() {
		defer close(done)
		last := -1
		for p := range progress {
			if p != last {
				fmt.Fprintf(os.Stderr, "  %3d%%\n", p)
				last = p
			}
		}
	}()

	result, err := a.verifier.VerifyBatch(ctx, items, progress)
	<-done
	if err != nil {
		if result != nil && result.CompletedCount > 0 {
			fmt.Fprintf(os.Stderr, "batch interrupted: %v\n", err)
		} else {
			return fmt.Errorf("batch failed: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Completed %d/%d\n", result.CompletedCount, result.RequestedCount)
	for _, rec := range result.Records {
		score := "n/a"
		if rec.SimilarityScore != nil {
			score = fmt.Sprintf("%.3f", *rec.SimilarityScore)
		}
		fmt.Printf("%-12s %-7s %s\n", rec.Status, score, rec.SourceURL)
	}

	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", batchOutput)
	}
	return nil
}
