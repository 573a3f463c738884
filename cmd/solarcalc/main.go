package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lankasolar/solarcalc/internal/api"
	"github.com/lankasolar/solarcalc/internal/pkg/config"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
	"github.com/lankasolar/solarcalc/internal/seed"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "solarcalc",
		Short:         "Solar PV output and savings estimator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.Load(configPath); err != nil {
				return err
			}
			return logger.Init(viper.GetString(constants.ViperLogLevelKey), viper.GetString(constants.ViperLogEncodingKey))
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (xpgx.Pool, error) {
	return xpgx.Connect(ctx, xpgx.ConnectOpts{
		DSN:      viper.GetString(constants.ViperPostgresDSNKey),
		MaxConns: viper.GetInt32(constants.ViperPostgresMaxConnsKey),
		Retries:  viper.GetUint64(constants.ViperPostgresConnectRetriesKey),
	})
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if migrate {
				if err := store.Migrate(ctx, pool); err != nil {
					return err
				}
			}

			svc, err := api.NewAPIService(store.NewStore(pool))
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				addr := viper.GetString(constants.ViperHTTPAddrKey)
				logger.Infof(ctx, "listening on %s", addr)
				errCh <- svc.Serve(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Infof(context.Background(), "shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), viper.GetDuration(constants.ViperHTTPShutdownTimeoutKey))
			defer cancel()

			return svc.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply database migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			return store.Migrate(cmd.Context(), pool)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file.yaml]",
		Short: "Load variables, panels, tariff, locations and the model from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, err := seed.Load(args[0])
			if err != nil {
				return err
			}

			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.Migrate(ctx, pool); err != nil {
				return err
			}

			summary, err := seed.Apply(ctx, store.NewStore(pool), file)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "variables: %d, panels: %d, rate tiers: %d, locations: %d, active model: %d\n",
				summary.Variables, summary.Panels, summary.RateTiers, summary.Locations, summary.CoefficientSet)
			return nil
		},
	}
}
