// Package rules handles the categorization rule management commands
package rules

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a1e5ya/smart-finance-planner/cmd/root"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/models"
	"github.com/a1e5ya/smart-finance-planner/internal/ruleengine"
)

var rulesFile string

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect categorization rules",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured categorization rules",
	Run:   listFunc,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compile the rules and report any that would be skipped",
	Run:   checkFunc,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the starter rule set to the rules file",
	Run:   initFunc,
}

func init() {
	Cmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "Rules file overriding the configured path")
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(initCmd)
}

func loadRules() []models.CategoryRule {
	path := root.Cfg.Categorization.RulesFile
	if rulesFile != "" {
		path = rulesFile
	}

	store := ruleengine.NewRuleStore(path, logging.GetLogger())
	loaded, err := store.LoadRules()
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to load rules")
	}
	return loaded
}

func listFunc(cmd *cobra.Command, args []string) {
	loaded := loadRules()
	if len(loaded) == 0 {
		root.Log.Info("No rules configured")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tPATTERN\tCATEGORY\tPRIORITY\tCONFIDENCE\tACTIVE")
	for _, r := range loaded {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%t\n",
			r.ID, r.PatternType, r.PatternValue, r.TargetCategory, r.Priority, r.Confidence, r.Active)
	}
	if err := w.Flush(); err != nil {
		root.Log.WithError(err).Error("Failed to print rules")
	}
}

func initFunc(cmd *cobra.Command, args []string) {
	path := root.Cfg.Categorization.RulesFile
	if rulesFile != "" {
		path = rulesFile
	}

	store := ruleengine.NewRuleStore(path, logging.GetLogger())
	if _, err := store.FindRulesFile(); err == nil {
		root.Log.Fatalf("Rules file %s already exists, refusing to overwrite", path)
	}

	defaults := ruleengine.DefaultRules()
	if err := store.SaveRules(defaults); err != nil {
		root.Log.WithError(err).Fatal("Failed to write starter rules")
	}
	root.Log.Infof("Wrote %d starter rules to %s", len(defaults), path)
}

func checkFunc(cmd *cobra.Command, args []string) {
	loaded := loadRules()
	engine := ruleengine.New(loaded, logging.GetLogger())

	active := 0
	for _, r := range loaded {
		if r.Active {
			active++
		}
	}

	root.Log.Infof("%d rules loaded, %d active, %d usable", len(loaded), active, engine.RuleCount())
	if skipped := active - engine.RuleCount(); skipped > 0 {
		root.Log.Warnf("%d active rules have invalid patterns and would be skipped", skipped)
	}
}
