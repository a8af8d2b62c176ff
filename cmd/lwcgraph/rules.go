package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lwcgraph/internal/analyzer"
	"lwcgraph/internal/diag"
	"lwcgraph/internal/rules"
)

const pluginName = rules.Prefix

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rules and their effective severity",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	rulesCmd.Flags().Bool("check", false, "compare the rules with the analyzer catalog")
	rulesCmd.Flags().String("analyzer", "", "analyzer command line, overrides [analyzer].command")
}

type ruleRow struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Docs     string `json:"docs"`
}

type catalogCheck struct {
	Missing []string `json:"missing"`
	Unknown []string `json:"unknown"`
}

type rulesPayload struct {
	Rules []ruleRow     `json:"rules"`
	Check *catalogCheck `json:"check,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	analyzerFlag, err := cmd.Flags().GetString("analyzer")
	if err != nil {
		return fmt.Errorf("failed to get analyzer flag: %w", err)
	}

	settings, err := e.cfg.RuleSettings()
	if err != nil {
		return err
	}
	payload := rulesPayload{Rules: ruleRows(settings)}

	if check {
		cfg := e.cfg
		if analyzerFlag != "" {
			cfg.Analyzer.Command = strings.Fields(analyzerFlag)
			cfg.Path = ""
		}
		a, err := cfg.NewAnalyzer()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		res, err := checkCatalog(ctx, a)
		if err != nil {
			return err
		}
		payload.Check = res
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	} else if err := renderRulesPretty(out, payload, e.useColor); err != nil {
		return err
	}

	if payload.Check != nil && len(payload.Check.Missing) > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func ruleRows(settings rules.Settings) []ruleRow {
	all := rules.All()
	rows := make([]ruleRow, 0, len(all))
	for _, r := range all {
		rows = append(rows, ruleRow{
			Name:     r.Name,
			ID:       r.ID(),
			Code:     r.Code(),
			Severity: settings.Severity(r.Name).String(),
			Docs:     r.DocURL(),
		})
	}
	return rows
}

func checkCatalog(ctx context.Context, a analyzer.Analyzer) (*catalogCheck, error) {
	catalog, err := a.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyzer catalog: %w", err)
	}
	codes := make([]string, 0, len(catalog))
	for _, entry := range catalog {
		codes = append(codes, entry.Code)
	}
	slices.Sort(codes)
	codes = slices.Compact(codes)
	missing, unknown := rules.CatalogDiff(codes)
	return &catalogCheck{Missing: nonNil(missing), Unknown: nonNil(unknown)}, nil
}

func renderRulesPretty(out io.Writer, payload rulesPayload, useColor bool) error {
	sevColor := map[string]*color.Color{
		diag.SevError.String():   color.New(color.FgRed, color.Bold),
		diag.SevWarning.String(): color.New(color.FgYellow),
		diag.SevOff.String():     color.New(color.Faint),
	}
	for _, c := range sevColor {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range payload.Rules {
		sev := fmt.Sprintf("%-7s", row.Severity)
		if c, ok := sevColor[row.Severity]; ok {
			sev = c.Sprint(sev)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sev, row.Name, row.Code, row.Docs)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if payload.Check == nil {
		return nil
	}
	if len(payload.Check.Missing) == 0 && len(payload.Check.Unknown) == 0 {
		fmt.Fprintln(out, "\ncatalog: every rule has an analyzer entry")
		return nil
	}
	for _, name := range payload.Check.Missing {
		fmt.Fprintf(out, "\nmissing from catalog: %s", name)
	}
	for _, code := range payload.Check.Unknown {
		fmt.Fprintf(out, "\nno rule for catalog code: %s", code)
	}
	fmt.Fprintln(out)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
