package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/linkforward/pkg/format"
)

func newHealthCmd() *cobra.Command {
	var useJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the helper service is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newForwarder()
			if err != nil {
				return err
			}

			health, err := f.Health(cmd.Context())
			if err != nil {
				GetZapLogger().Debug("Health check failed",
					zap.String("service_url", f.ServiceURL()),
					zap.Error(err))
				return fmt.Errorf("health check of %s failed: %w", f.ServiceURL(), err)
			}

			out := cmd.OutOrStdout()
			if useJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(health)
			}

			p := format.NewPrinter(out)
			p.Field("Service", f.ServiceURL(), 8)
			p.Field("Status", health.Status, 8)
			if health.Version != "" {
				p.Field("Version", health.Version, 8)
			}
			if health.Uptime != "" {
				p.Field("Uptime", health.Uptime, 8)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useJSON, "json", false, "output in JSON format")
	return cmd
}
