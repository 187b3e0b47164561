package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/baler/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the compile cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			generated, _ := cmd.Flags().GetBool("generated")
			return c.app.Clean(cmd.Context(), app.CleanOptions{
				ConfigPath: configPath,
				Generated:  generated,
			})
		},
	}
	cmd.Flags().Bool("generated", false, "Also remove the generated asset package")
	return cmd
}
