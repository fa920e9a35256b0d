package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/safe-interrupt/config"
	"github.com/zeu5/safe-interrupt/server"
)

func ServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve environment sessions over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = config.GetEnvWithDefault("SAFEINT_ADDR", "localhost:8080")
			}
			ctx, cancel := withInterrupt()
			defer cancel()
			return server.NewServer(addr, cfg.Environment).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on, defaults to $SAFEINT_ADDR or localhost:8080")
	return cmd
}
