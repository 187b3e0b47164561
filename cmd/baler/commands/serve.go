package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/baler/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built assets over HTTP for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			addr, _ := cmd.Flags().GetString("addr")
			watch, _ := cmd.Flags().GetBool("watch")
			return c.app.Serve(cmd.Context(), app.ServeOptions{
				ConfigPath: configPath,
				Addr:       addr,
				Watch:      watch,
			})
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild when source files change")
	return cmd
}
