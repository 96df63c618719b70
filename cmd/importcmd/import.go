// Package importcmd handles the CSV import command
package importcmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a1e5ya/smart-finance-planner/cmd/root"
	"github.com/a1e5ya/smart-finance-planner/internal/export"
	"github.com/a1e5ya/smart-finance-planner/internal/importer"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/models"
	"github.com/a1e5ya/smart-finance-planner/internal/ruleengine"
)

var (
	rulesFile      string
	categoriesFile string
	noCategorize   bool
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a bank CSV export",
	Long: `Import a bank CSV export: detect its encoding and layout, normalize
every row into the canonical transaction format, categorize with the
configured rules and write the result as CSV.`,
	Run: importFunc,
}

func init() {
	Cmd.Flags().StringVar(&rulesFile, "rules", "", "Rules file overriding the configured path")
	Cmd.Flags().StringVar(&categoriesFile, "categories", "", "YAML file with the category name-to-id list for name matching")
	Cmd.Flags().BoolVar(&noCategorize, "no-categorize", false, "Skip categorization entirely")
}

func importFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("An input file is required, use --input")
	}
	if root.SharedFlags.User == "" {
		root.Log.Fatal("A user ID is required, use --user")
	}

	cfg := root.Cfg
	logger := logging.GetLogger()

	path := cfg.Categorization.RulesFile
	if rulesFile != "" {
		path = rulesFile
	}
	store := ruleengine.NewRuleStore(path, logger)
	rules, err := store.LoadRules()
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to load categorization rules")
	}
	engine := ruleengine.New(rules, logger)

	var candidates []models.CategoryCandidate
	if categoriesFile != "" {
		candidates, err = ruleengine.LoadCandidates(categoriesFile, logger)
		if err != nil {
			root.Log.WithError(err).Fatal("Failed to load category candidates")
		}
	}

	imp := importer.New(engine, logger)
	result, err := imp.ImportFile(context.Background(), root.SharedFlags.Input, importer.Options{
		UserID:                root.SharedFlags.User,
		AccountID:             root.SharedFlags.Account,
		DefaultCurrency:       cfg.Import.DefaultCurrency,
		CategoryCandidates:    candidates,
		CategorizationEnabled: cfg.Categorization.Enabled && !noCategorize,
		ConfidenceThreshold:   cfg.Categorization.ConfidenceThreshold,
		MaxReportedErrors:     cfg.Import.MaxReportedErrors,
		MerchantMaxLength:     cfg.Import.MerchantMaxLength,
		MemoMaxLength:         cfg.Import.MemoMaxLength,
	})
	if err != nil {
		root.Log.WithError(err).Fatal("Import failed")
	}

	if root.SharedFlags.Output != "" {
		if err := export.WriteTransactionsToFile(result.Transactions, root.SharedFlags.Output); err != nil {
			root.Log.WithError(err).Fatal("Failed to write output CSV")
		}
	}

	payload, err := json.MarshalIndent(result.Summary, "", "  ")
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to encode summary")
	}
	fmt.Println(string(payload))

	root.Log.Info("Import completed successfully!")
}
