package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dealwire/internal/config"
	"dealwire/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show enrichment cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		cache, err := store.NewStore(cfg.App.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer func() { _ = cache.Close() }()

		stats, err := cache.GetCacheStats()
		if err != nil {
			return err
		}

		fmt.Printf("Cached deals:  %d\n", stats.DealCount)
		fmt.Printf("Cache size:    %d bytes\n", stats.CacheSize)
		if !stats.LastUpdated.IsZero() {
			fmt.Printf("Last updated:  %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
