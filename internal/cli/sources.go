package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

var sourcesJSON bool

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show aggregated per-domain trust profiles",
	Long: `Sources aggregates stored verification records and the known-sources
registry into per-domain trust profiles, ordered by citation count.

Each profile carries a 0-100 trust score, a verified flag, and a majority
vote over the contributing hallucination risk labels.

Example:
  forzeo sources --store-dir ./records
  forzeo sources --store-dir ./records --sources known_sources.yaml --json`,
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)

	sourcesCmd.Flags().StringVar(&storeDir, "store-dir", "", "record directory to aggregate (default: in-memory, empty)")
	sourcesCmd.Flags().StringVar(&registryPath, "sources", "", "known-sources registry YAML path")
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "print profiles as JSON")
}

func runSources(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := loadConfig()
	if storeDir != "" {
		cfg.Store.Dir = storeDir
	}
	if registryPath != "" {
		cfg.Trust.RegistryPath = registryPath
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	var known []model.KnownSource
	if a.registry != nil {
		known, err = a.registry.Load()
		if err != nil {
			return fmt.Errorf("load known sources: %w", err)
		}
	}

	profiles := a.agg.Aggregate(records, known)
	if len(profiles) == 0 {
		fmt.Fprintln(os.Stderr, "No domains to report.")
		return nil
	}

	if sourcesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	}

	fmt.Printf("%-30s %9s %6s %9s  %s\n", "DOMAIN", "CITATIONS", "SCORE", "VERIFIED", "RISK")
	for _, p := range profiles {
		risk := string(p.Risk)
		if risk == "" {
			risk = "-"
		}
		fmt.Printf("%-30s %9d %6d %9v  %s\n", p.Domain, p.CitationCount, p.TrustScore, p.Verified, risk)
	}
	return nil
}
