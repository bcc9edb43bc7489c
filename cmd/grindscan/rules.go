package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"grindscan/internal/diag"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the Valgrind error kinds grindscan knows",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		tool, err := cmd.Flags().GetString("tool")
		if err != nil {
			return fmt.Errorf("failed to get tool flag: %w", err)
		}
		rules := selectRules(tool)
		switch strings.ToLower(format) {
		case "pretty":
			return renderRulesPretty(cmd.OutOrStdout(), rules)
		case "json":
			return renderRulesJSON(cmd.OutOrStdout(), rules)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	},
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	rulesCmd.Flags().String("tool", "", "only rules of one tool (memcheck|helgrind|drd)")
}

type rulePayload struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Tool     string `json:"tool"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
}

func selectRules(tool string) []diag.Code {
	all := diag.Rules()
	if tool == "" {
		return all
	}
	out := make([]diag.Code, 0, len(all))
	for _, c := range all {
		if strings.EqualFold(c.Tool(), tool) {
			out = append(out, c)
		}
	}
	return out
}

func renderRulesPretty(out io.Writer, rules []diag.Code) error {
	bold := color.New(color.Bold)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", bold.Sprint("ID"), bold.Sprint("KIND"), bold.Sprint("SEVERITY"), bold.Sprint("TITLE"))
	for _, c := range rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID(), c.Kind(), c.DefaultSeverity().Label(), c.Title())
	}
	return tw.Flush()
}

func renderRulesJSON(out io.Writer, rules []diag.Code) error {
	payload := make([]rulePayload, 0, len(rules))
	for _, c := range rules {
		payload = append(payload, rulePayload{
			ID:       c.ID(),
			Kind:     c.Kind(),
			Tool:     c.Tool(),
			Title:    c.Title(),
			Severity: c.DefaultSeverity().Label(),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
