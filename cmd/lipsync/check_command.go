package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lipsync/internal/deps"
	"lipsync/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			statuses = append(statuses, deps.CheckDirectories(cfg)...)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusTable(statuses))
			fmt.Fprintf(out, "Config: %s\n", configLocation(ctx))
			fmt.Fprintf(out, "Phone cache enabled: %s\n", yesNo(cfg.Cache.Enabled))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return services.Wrap(services.ErrConfiguration, "check", "", fmt.Sprintf("%d required dependencies unavailable", len(missing)), nil)
			}
			fmt.Fprintln(out, "All dependencies available")
			return nil
		},
	}
}

func configLocation(ctx *commandContext) string {
	if !ctx.configSeen {
		return ctx.configPath + " (not found, defaults used)"
	}
	return ctx.configPath
}
