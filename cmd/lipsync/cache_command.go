package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lipsync/internal/phonecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the phone cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePurgeCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many utterances are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := phonecache.Open(cmd.Context(), cfg.Paths.CacheDir)
			if err != nil {
				return err
			}
			defer cache.Close()

			count, err := cache.Count(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache database: %s\n", cache.Path())
			fmt.Fprintf(out, "Cached utterances: %d\n", count)
			return nil
		},
	}
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every cached utterance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			removed, err := phonecache.Purge(cmd.Context(), cfg.Paths.CacheDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if removed == 0 {
				fmt.Fprintln(out, "Phone cache already empty")
				return nil
			}
			fmt.Fprintf(out, "Removed phone cache in %s\n", cfg.Paths.CacheDir)
			return nil
		},
	}
}
