package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lucifer/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the invalidation and test-run server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dir, _ := cmd.Flags().GetString("dir")
			port, _ := cmd.Flags().GetInt("port")
			watch, _ := cmd.Flags().GetBool("watch")
			jsonLogs, _ := cmd.Flags().GetBool("json-logs")

			return c.app.Serve(cmd.Context(), app.ServeOptions{
				ConfigPath: configPath,
				Directory:  dir,
				Port:       port,
				Watch:      watch,
				JSONLogs:   jsonLogs,
			})
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to the configuration file (default lucifer.yaml if present)")
	cmd.Flags().StringP("dir", "d", "", "Root directory requested files are resolved against")
	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default 11666)")
	cmd.Flags().BoolP("watch", "w", false, "Invalidate modules when files change on disk")
	return cmd
}
