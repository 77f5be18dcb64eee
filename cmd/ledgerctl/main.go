package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fin-ledger/pkg/config"
	"fin-ledger/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer the fin-ledger store",
		Long: `ledgerctl applies schema migrations, seeds the shared category list and
prints period summaries straight from the configured store.

Settings come from the same environment as the server. Flags and an optional
config file override the store selection.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, optional)")
	rootCmd.PersistentFlags().String("driver", "", "store driver: postgres, sqlite or memory")
	rootCmd.PersistentFlags().String("sqlite-path", "", "sqlite database file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("driver"))
	_ = viper.BindPFlag("store.sqlite_path", rootCmd.PersistentFlags().Lookup("sqlite-path"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCategoriesCmd())
	rootCmd.AddCommand(summaryCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	viper.SetEnvPrefix("LEDGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if driver := viper.GetString("store.driver"); driver != "" {
		loaded.Store.Driver = driver
	}
	if path := viper.GetString("store.sqlite_path"); path != "" {
		loaded.Store.SQLitePath = path
	}
	if level := viper.GetString("logging.level"); level != "" {
		loaded.Logger.Level = level
	}
	// one-shot commands gain nothing from the category cache
	loaded.Cache.Enabled = false

	if err := loaded.Validate(); err != nil {
		return err
	}
	if err := logger.Init(loaded.Logger.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg = loaded

	logger.Get().Debug("Configuration loaded",
		zap.String("driver", cfg.Store.Driver),
		zap.String("config_file", viper.ConfigFileUsed()),
	)
	return nil
}
