// Package main provides the entry point for the smart-finance-planner CLI.
package main

import (
	"github.com/a1e5ya/smart-finance-planner/cmd/importcmd"
	"github.com/a1e5ya/smart-finance-planner/cmd/root"
	"github.com/a1e5ya/smart-finance-planner/cmd/rules"
	"github.com/a1e5ya/smart-finance-planner/cmd/validate"
)

func main() {
	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Execute()
}
