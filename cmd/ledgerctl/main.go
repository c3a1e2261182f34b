// Command ledgerctl runs maintenance tasks against the household ledger store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/carson-networks/household-ledger/internal/config"
	"github.com/carson-networks/household-ledger/internal/logging"
	"github.com/carson-networks/household-ledger/internal/operator"
	"github.com/carson-networks/household-ledger/internal/service"
	"github.com/carson-networks/household-ledger/internal/storage"
	"github.com/carson-networks/household-ledger/internal/storage/backend"
	"github.com/carson-networks/household-ledger/internal/txsort"
)

// openStore is replaced in tests.
var openStore = backend.Open

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Maintenance commands for the household ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(cfgFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./ledgerctl.yaml)")
	flags.String("backend", "", "storage backend: postgres or memory")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("timezone", "", "household time zone, e.g. Asia/Jerusalem")
	flags.String("locale", "", "collation locale for sorting")
	_ = viper.BindPFlag("data_backend", flags.Lookup("backend"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("ledger_timezone", flags.Lookup("timezone"))
	_ = viper.BindPFlag("ledger_locale", flags.Lookup("locale"))

	root.AddCommand(migrateCmd())
	root.AddCommand(billingCheckCmd())
	root.AddCommand(summaryCmd())
	return root
}

func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("ledgerctl")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("LEDGER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// loadConfig resolves the server's settings through viper, so flags, the
// config file and LEDGER_* variables all apply.
func loadConfig() (*config.Config, error) {
	return config.FromLookup(func(key string) (string, bool) {
		k := strings.ToLower(key)
		if !viper.IsSet(k) {
			return "", false
		}
		return viper.GetString(k), true
	})
}

// app is the slice of the server a command needs.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	store     storage.IStorage
	delegator *operator.OperatorDelegator
	svc       *service.Service
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.SetupLogging()
	log.SetOutput(os.Stderr)
	if err := logging.SetLevel(log, cfg.LogLevel); err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	sorter, err := txsort.New(cfg.Locale)
	if err != nil {
		store.Close()
		return nil, err
	}
	d := operator.NewOperatorDelegator(store, operator.Options{
		WriteTimeout: cfg.WriteTimeout,
		QueueSize:    cfg.OperatorQueueSize,
		Logger:       log,
	})
	return &app{
		cfg:       cfg,
		log:       log,
		store:     store,
		delegator: d,
		svc:       service.NewService(d, sorter, cfg.Location(), nil),
	}, nil
}

func (a *app) Close() {
	a.delegator.Stop()
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("ledgerctl: closing storage")
	}
}
