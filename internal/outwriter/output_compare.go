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

// WriteComparisonResults outputs the comparison grid, dispatching based on the output format configured.
func WriteComparisonResults(w io.Writer, result schema.ComparisonResult, c *schema.Catalog, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeComparisonCSV(w, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeComparisonTable(w, result, c, cfg, fmtFloat, duration)
	}
	return nil
}

// writeComparisonCSV writes one row per dimension plus a trailing average row.
func writeComparisonCSV(w io.Writer, result schema.ComparisonResult, fmtFloat func(float64) string) error {
	header := append([]string{"dimension"}, result.Members...)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range result.Rows {
			if err := cw.Write(comparisonCSVRow(string(r.Dimension), r.Cells, fmtFloat)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		if len(result.Averages) > 0 {
			if err := cw.Write(comparisonCSVRow("average", result.Averages, fmtFloat)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func comparisonCSVRow(name string, cells []schema.ComparisonCell, fmtFloat func(float64) string) []string {
	row := []string{name}
	for _, cell := range cells {
		row = append(row, fmtFloat(cell.Value))
	}
	return row
}

// writeComparisonTable generates and writes the human-readable grid.
func writeComparisonTable(w io.Writer, result schema.ComparisonResult, c *schema.Catalog, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if len(result.Members) == 0 {
		_, err := fmt.Fprintln(w, "No mechanisms selected for comparison")
		return err
	}
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Dimension"}
	for _, id := range result.Members {
		name := id
		if m, ok := c.Mechanism(id); ok {
			name = m.DisplayName()
		}
		headers = append(headers, name)
	}
	table.Header(headers)

	// 2. Configure alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	cellRow := func(name string, cells []schema.ComparisonCell) []string {
		row := []string{name}
		for _, cell := range cells {
			row = append(row, markMax(fmtFloat(cell.Value), cell.IsMax, cfg))
		}
		return row
	}
	var data [][]string
	for _, r := range result.Rows {
		data = append(data, cellRow(r.Name, r.Cells))
	}
	data = append(data, cellRow("Average", result.Averages))

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Compared %d mechanisms in %v\n", len(result.Members), duration); err != nil {
		return err
	}
	return nil
}
