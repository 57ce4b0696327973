package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/a11y-checker/internal/accessibility"
	"github.com/jonathan/a11y-checker/internal/observability"
	"github.com/spf13/cobra"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the accessibility rules and their weights",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printRules(cmd.OutOrStdout(), rulesFormat)
	},
}

func init() {
	rulesCmd.Flags().StringVarP(&rulesFormat, "format", "f", "text", "Output format: text or json")
	rootCmd.AddCommand(rulesCmd)
}

func printRules(out io.Writer, format string) error {
	infos := accessibility.NewEngine().RuleInfos()

	switch format {
	case "text":
		observability.NewPrinter(out).PrintRules(infos)
		return nil
	case "json":
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal rules: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}
