package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteWhatIfResults outputs an edit scenario, dispatching based on the output format configured.
func WriteWhatIfResults(w io.Writer, result schema.WhatIfResult, c *schema.Catalog, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWhatIfCSV(w, result, c.Dimensions, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWhatIfTable(w, result, c.Dimensions, cfg, fmtFloat, duration)
	}
	return nil
}

// formatDelta renders a signed change with the configured precision.
func formatDelta(delta float64, fmtFloat func(float64) string) string {
	if delta > 0 {
		return "+" + fmtFloat(delta)
	}
	return fmtFloat(delta)
}

// writeWhatIfCSV writes one row per dimension plus the average row.
func writeWhatIfCSV(w io.Writer, result schema.WhatIfResult, dims schema.DimensionSet, fmtFloat func(float64) string) error {
	header := []string{"dimension", "original", "edited", "delta"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range dims {
			before, after := result.Original[string(d.Key)], result.Edited[string(d.Key)]
			if err := cw.Write([]string{string(d.Key), fmtFloat(before), fmtFloat(after), fmtFloat(after - before)}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		row := []string{"average", fmtFloat(result.OriginalAverage), fmtFloat(result.EditedAverage), fmtFloat(result.Delta)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
		return nil
	})
}

// writeWhatIfTable generates and writes the before/after table.
func writeWhatIfTable(w io.Writer, result schema.WhatIfResult, dims schema.DimensionSet, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "What-if: %s (%s)\n", result.Name, result.MechanismID); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Original", "Edited", "Delta"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range dims {
		before, after := result.Original[string(d.Key)], result.Edited[string(d.Key)]
		data = append(data, []string{d.Name, fmtFloat(before), fmtFloat(after), formatDelta(after-before, fmtFloat)})
	}
	data = append(data, []string{
		"Average",
		fmtFloat(result.OriginalAverage) + " " + labelFor(result.OriginalAverage, cfg),
		fmtFloat(result.EditedAverage) + " " + labelFor(result.EditedAverage, cfg),
		formatDelta(result.Delta, fmtFloat),
	})

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rank: #%d -> #%d\n", result.RankBefore, result.RankAfter); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scenario computed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
