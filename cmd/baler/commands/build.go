package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/baler/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the manifest and write the generated asset package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			return c.app.Build(cmd.Context(), app.BuildOptions{
				ConfigPath: configPath,
				NoCache:    noCache,
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the compile cache and force preprocessing")
	cmd.Flags().Bool("progress", false, "Print per-file build progress")
	return cmd
}
