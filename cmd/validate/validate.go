// Package validate handles the dry-run validation command
package validate

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a1e5ya/smart-finance-planner/cmd/root"
	"github.com/a1e5ya/smart-finance-planner/internal/columnmap"
	"github.com/a1e5ya/smart-finance-planner/internal/encodingutil"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/tableparse"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether a CSV file can be imported",
	Long: `Check whether a CSV file can be imported without writing anything:
detect its encoding, delimiter and quoting, and verify the required
columns can be mapped.`,
	Run: validateFunc,
}

func validateFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("An input file is required, use --input")
	}

	data, err := os.ReadFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to read input file")
	}

	text, encodingName := encodingutil.Decode(data)
	root.Log.WithField("encoding", encodingName).Info("Detected encoding")

	table, err := tableparse.Detect(text, filepath.Base(root.SharedFlags.Input))
	if err != nil {
		root.Log.WithError(err).Fatal("File is not an importable table")
	}
	root.Log.WithFields(map[string]interface{}{
		"delimiter": string(table.Delimiter),
		"columns":   len(table.Headers),
		"rows":      len(table.Rows),
	}).Info("Detected table layout")

	cm, err := columnmap.Build(table.Headers, logging.GetLogger())
	if err != nil {
		root.Log.WithError(err).Fatal("Required columns are missing")
	}

	for _, field := range []string{columnmap.FieldDate, columnmap.FieldAmount, columnmap.FieldMerchant, columnmap.FieldMemo} {
		if cm.Has(field) {
			root.Log.Infof("Mapped %s -> %s", field, cm.Header(field))
		}
	}

	root.Log.Info("File is importable")
}
