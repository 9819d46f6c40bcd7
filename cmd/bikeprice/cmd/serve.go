package cmd

import (
	"bikeprice/internal/di"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the snapshot and pricing views over HTTP",
	Long: `serve restores the last snapshot, listens on webServer.host:port and
regenerates the snapshot every snapshot.refreshInterval. On SIGINT or SIGTERM
the served snapshot is written back to snapshot.filePath.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := di.InitApp(&flags)
		if err != nil {
			return err
		}
		return app.Run()
	},
}
