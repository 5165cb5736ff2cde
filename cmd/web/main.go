package main

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/newpennine/report-engine/pkg/server"
	"github.com/newpennine/report-engine/pkg/services/report"
	"github.com/newpennine/report-engine/pkg/services/report/export"
	"github.com/newpennine/report-engine/pkg/services/report/legacy"
	"github.com/newpennine/report-engine/pkg/services/warehouse"
	warehousestore "github.com/newpennine/report-engine/pkg/store/warehouse"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "web",
		Short: "Start the report engine web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (default is ./report-engine.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() error {
	if cfgPath != "" {
		viper.SetConfigFile(cfgPath)
	} else {
		viper.SetConfigName("report-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("REPORT_ENGINE")
	viper.AutomaticEnv()
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("cache.freshness", report.DefaultFreshness)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	dsn := viper.GetString("database.dsn")
	if dsn == "" {
		return fmt.Errorf("database.dsn is not configured")
	}

	db, err := warehousestore.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse database: %w", err)
	}
	defer db.Close()

	store, err := warehousestore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create warehouse store: %w", err)
	}

	registry := report.NewRegistry(logger)
	if err := warehouse.RegisterAll(registry, store); err != nil {
		return fmt.Errorf("failed to register reports: %w", err)
	}

	cache := report.NewCache(viper.GetDuration("cache.freshness"))
	engine := report.NewEngine(
		registry,
		cache,
		warehouse.Calculators(),
		export.NewDocumentGenerator(
			legacy.NewVoidPalletRenderer(),
			legacy.NewOrderLoadingRenderer(),
		),
		export.NewSpreadsheetGenerator(),
		export.NewCSVGenerator(),
	)

	for _, reg := range registry.All() {
		logger.Info().
			Str("report", reg.Config.ID).
			Str("category", reg.Config.Category).
			Msg("report registered")
	}

	addr := net.JoinHostPort(viper.GetString("server.host"), viper.GetString("server.port"))
	api := server.NewWebAPI(logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Registry: registry,
			Engine:   engine,
		},
	})

	return api.Start()
}
