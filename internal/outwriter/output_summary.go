package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSummaryReport outputs the catalogue overview, dispatching based on the output format configured.
func WriteSummaryReport(w io.Writer, report schema.SummaryReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSummaryCSV(w, report, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeSummaryText(w, report, cfg, fmtFloat)
	}
	return nil
}

// writeSummaryCSV flattens the statistics into metric/value pairs.
func writeSummaryCSV(w io.Writer, report schema.SummaryReport, fmtFloat func(float64) string) error {
	s := report.Summary
	return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"mechanisms", strconv.Itoa(s.Mechanisms)},
			{"objectives", strconv.Itoa(s.Objectives)},
			{"dimensions", strconv.Itoa(s.Dimensions)},
			{"average_of_averages", fmtFloat(s.AverageOfAverages)},
			{"top_score", fmtFloat(s.TopScore)},
			{"top_mechanism_id", s.TopMechanismID},
		}
		for _, c := range report.Coverage {
			rows = append(rows,
				[]string{c.ObjectiveID + "_primary", strconv.Itoa(c.Primary)},
				[]string{c.ObjectiveID + "_partial", strconv.Itoa(c.Partial)},
			)
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeSummaryText prints the statistics, the coverage totals and the findings.
func writeSummaryText(w io.Writer, report schema.SummaryReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	s := report.Summary
	heading := "Catalogue Summary"
	if cfg.UseEmojis {
		heading = "📋 " + heading
	}
	lines := []string{
		heading,
		fmt.Sprintf("  Mechanisms: %d  Objectives: %d  Dimensions: %d", s.Mechanisms, s.Objectives, s.Dimensions),
		fmt.Sprintf("  Average of averages: %s", fmtFloat(s.AverageOfAverages)),
	}
	if s.TopMechanismID != "" {
		lines = append(lines, fmt.Sprintf("  Top mechanism: %s (%s) at %s", report.TopMechanismName, s.TopMechanismID, fmtFloat(s.TopScore)))
	}
	if err := writeLines(w, lines...); err != nil {
		return err
	}

	if len(report.Coverage) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Objective", "Primary", "Partial"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var data [][]string
		for _, c := range report.Coverage {
			data = append(data, []string{c.Name, strconv.Itoa(c.Primary), strconv.Itoa(c.Partial)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(report.Findings) == 0 {
		return nil
	}
	findings := []string{"", "Key Findings"}
	for i, f := range report.Findings {
		findings = append(findings, fmt.Sprintf("  %d. %s", i+1, f.Title))
		if f.Description != "" {
			findings = append(findings, "     "+f.Description)
		}
	}
	return writeLines(w, findings...)
}
