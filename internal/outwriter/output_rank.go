package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/parquet"
	"github.com/huangsam/vmfs/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRankResults outputs a ranked list, dispatching based on the output format configured.
func WriteRankResults(w io.Writer, ranked []schema.RankedMechanism, c *schema.Catalog, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, ranked); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeRankCSV(w, ranked, c.Dimensions, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRankedParquet(w, ranked); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeRankTable(w, ranked, c, cfg, fmtFloat, duration)
	}
	return nil
}

// writeRankCSV writes one row per mechanism with a column per dimension.
func writeRankCSV(w io.Writer, ranked []schema.RankedMechanism, dims schema.DimensionSet, fmtFloat func(float64) string) error {
	header := []string{"rank", "id", "name"}
	header = append(header, dimensionCSVKeys(dims)...)
	header = append(header, "average", "label")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range ranked {
			row := []string{strconv.Itoa(r.Rank), r.ID, r.Name}
			for _, d := range dims {
				row = append(row, fmtFloat(r.Scores[string(d.Key)]))
			}
			row = append(row, fmtFloat(r.Average), r.Label)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeRankTable generates and writes the human-readable table.
func writeRankTable(w io.Writer, ranked []schema.RankedMechanism, c *schema.Catalog, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	dims := c.Dimensions

	// 1. Define Headers
	headers := []string{"Rank", "ID", "Name"}
	headers = append(headers, dimensionHeaders(dims)...)
	headers = append(headers, "Avg", "Label")
	if cfg.Detail {
		headers = append(headers, "Coverage", "Inst.")
	}
	table.Header(headers)

	// 2. Configure alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	nameWidth := GetMaxTableNameWidth(cfg, dims.Len())
	var data [][]string
	total := 0.0
	for _, r := range ranked {
		row := []string{strconv.Itoa(r.Rank), r.ID, contract.TruncateText(r.Name, nameWidth)}
		for _, d := range dims {
			row = append(row, fmtFloat(r.Scores[string(d.Key)]))
		}
		row = append(row, fmtFloat(r.Average), labelFor(r.Average, cfg))
		if cfg.Detail {
			m, _ := c.Mechanism(r.ID)
			cells := make([]schema.CoverageCell, len(c.Objectives))
			for i, o := range c.Objectives {
				cells[i] = m.CoverageFor(o.ID)
			}
			row = append(row, coverageGlyphs(cells), m.InstitutionalRequirement)
		}
		data = append(data, row)
		total += r.Average
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	mean := 0.0
	if len(ranked) > 0 {
		mean = total / float64(len(ranked))
	}
	if _, err := fmt.Fprintf(w, "Showing top %d mechanisms (mean average: %s)\n", len(ranked), fmtFloat(mean)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranking completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
