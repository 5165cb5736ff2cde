package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/newpennine/report-engine/pkg/services/report"
	"github.com/newpennine/report-engine/pkg/services/report/export"
	"github.com/newpennine/report-engine/pkg/services/report/legacy"
	"github.com/newpennine/report-engine/pkg/services/warehouse"
	warehousestore "github.com/newpennine/report-engine/pkg/store/warehouse"
)

var (
	dsn        string
	format     string
	outPath    string
	rawFilters []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reports",
		Short: "Generate warehouse reports from the command line",
	}
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("REPORT_ENGINE_DATABASE_DSN"),
		"Warehouse database DSN")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the available reports",
		RunE:  runList,
	}

	generateCmd := &cobra.Command{
		Use:   "generate <report-id>",
		Short: "Generate a report and write it to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVarP(&format, "format", "f", "",
		"Output format (document, spreadsheet or text; defaults to the report's default)")
	generateCmd.Flags().StringVarP(&outPath, "out", "o", "",
		"Output file path (defaults to the generated filename)")
	generateCmd.Flags().StringArrayVar(&rawFilters, "filter", nil,
		"Filter value as id=value, repeatable")

	rootCmd.AddCommand(listCmd, generateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildEngine(cmd *cobra.Command) (report.Registry, *report.Engine, func(), error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	if dsn == "" {
		return nil, nil, nil, fmt.Errorf("--dsn or REPORT_ENGINE_DATABASE_DSN is required")
	}

	db, err := warehousestore.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to warehouse database: %w", err)
	}

	store, err := warehousestore.NewStore(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	registry := report.NewRegistry(logger)
	if err := warehouse.RegisterAll(registry, store); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	engine := report.NewEngine(
		registry,
		report.NewCache(report.DefaultFreshness),
		warehouse.Calculators(),
		export.NewDocumentGenerator(
			legacy.NewVoidPalletRenderer(),
			legacy.NewOrderLoadingRenderer(),
		),
		export.NewSpreadsheetGenerator(),
		export.NewCSVGenerator(),
	)

	return registry, engine, func() { db.Close() }, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	registry, _, closeDB, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	for _, reg := range registry.All() {
		cfg := reg.Config
		formats := make([]string, 0, len(cfg.Formats))
		for _, f := range cfg.Formats {
			formats = append(formats, string(f))
		}
		fmt.Printf("%-24s %-10s %s (%s)\n", cfg.ID, cfg.Category, cfg.Name, strings.Join(formats, ", "))
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_, engine, closeDB, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	filters, err := parseFilters(rawFilters)
	if err != nil {
		return err
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	payload, err := engine.Generate(ctx, args[0], domain.Format(format), filters)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = payload.Filename
	}
	if err := os.WriteFile(path, payload.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("wrote %s (%d bytes)\n", path, len(payload.Data))
	return nil
}

func parseFilters(raw []string) (map[string]any, error) {
	filters := make(map[string]any, len(raw))
	for _, pair := range raw {
		id, value, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid filter %q, expected id=value", pair)
		}
		filters[id] = value
	}
	return filters, nil
}
