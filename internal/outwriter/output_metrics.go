package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteMetricsDefinitions outputs the scoring model, dispatching based on the output format configured.
func WriteMetricsDefinitions(w io.Writer, model schema.MetricsRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, model); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeMetricsCSV(w, model); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeMetricsText(w, model, cfg)
	}
	return nil
}

// writeMetricsCSV writes one row per dimension with its active weight.
func writeMetricsCSV(w io.Writer, model schema.MetricsRenderModel) error {
	header := []string{"key", "name", "alias", "weight", "description"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range model.Dimensions {
			row := []string{string(d.Key), d.Name, d.Alias, fmt.Sprintf("%.4f", d.Weight), d.Description}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeMetricsText prints the dimensions, the aggregation formula and the score bands.
func writeMetricsText(w io.Writer, model schema.MetricsRenderModel, cfg *contract.Config) error {
	heading := "Feasibility Scoring Model"
	if cfg.UseEmojis {
		heading = "📐 " + heading
	}
	if err := writeLines(w, heading, ""); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Alias", "Weight", "Description"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, d := range model.Dimensions {
		data = append(data, []string{d.Name, d.Alias, fmt.Sprintf("%.2f", d.Weight), d.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	lines := []string{"", "Formula: " + model.Formula, "", "Score bands"}
	for _, b := range model.Bands {
		label := b.Label
		if cfg.UseColors {
			label = contract.ColorForScore(b.Min).Sprint(b.Label)
		}
		lines = append(lines, fmt.Sprintf("  >= %.1f  %s", b.Min, label))
	}
	return writeLines(w, lines...)
}
