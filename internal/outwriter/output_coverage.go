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

// WriteCoverageMatrix outputs the coverage grid, dispatching based on the output format configured.
func WriteCoverageMatrix(w io.Writer, matrix schema.CoverageMatrix, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, matrix); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCoverageCSV(w, matrix); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeCoverageTable(w, matrix, cfg)
	}
	return nil
}

// objectiveHeader prefers the objective short name.
func objectiveHeader(o schema.Objective) string {
	if o.ShortName != "" {
		return o.ShortName
	}
	return o.Name
}

// writeCoverageCSV writes the coverage level of every mechanism for every objective.
func writeCoverageCSV(w io.Writer, matrix schema.CoverageMatrix) error {
	header := []string{"mechanism_id"}
	for _, o := range matrix.Objectives {
		header = append(header, o.ID)
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range matrix.Rows {
			row := []string{r.MechanismID}
			for _, cell := range r.Cells {
				row = append(row, string(cell.Level))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeCoverageTable prints the glyph grid followed by per-objective totals.
func writeCoverageTable(w io.Writer, matrix schema.CoverageMatrix, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Mechanism"}
	for _, o := range matrix.Objectives {
		headers = append(headers, objectiveHeader(o))
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignCenter
	})

	nameWidth := GetMaxTableNameWidth(cfg, len(matrix.Objectives))
	var data [][]string
	for _, r := range matrix.Rows {
		row := []string{contract.TruncateText(r.Name, nameWidth)}
		for _, cell := range r.Cells {
			row = append(row, cell.Level.Symbol())
		}
		data = append(data, row)
	}
	totals := []string{"Primary / Partial"}
	for _, s := range matrix.Summary {
		totals = append(totals, strconv.Itoa(s.Primary)+" / "+strconv.Itoa(s.Partial))
	}
	data = append(data, totals)

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s primary  %s partial  %s none\n",
		schema.CoveragePrimary.Symbol(), schema.CoveragePartial.Symbol(), schema.CoverageNone.Symbol())
	return err
}
