package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// successMessage names what was written for the stderr notice.
func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.CSVOut:
		return "Wrote CSV"
	case schema.ParquetOut:
		return "Wrote Parquet"
	default:
		return "Wrote table"
	}
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// labelFor returns the band label, colored when the config allows it.
func labelFor(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// markMax decorates a value that leads its row.
func markMax(value string, isMax bool, cfg *contract.Config) string {
	if !isMax {
		return value
	}
	if cfg.UseEmojis {
		return "🏆 " + value
	}
	return value + " *"
}

// coverageGlyphs renders coverage levels in objective order, one symbol each.
func coverageGlyphs(cells []schema.CoverageCell) string {
	var sb strings.Builder
	for _, cell := range cells {
		sb.WriteString(cell.Level.Symbol())
	}
	return sb.String()
}

// dimensionHeaders returns the short names of the dimensions for table headers.
func dimensionHeaders(dims schema.DimensionSet) []string {
	headers := make([]string, dims.Len())
	for i, d := range dims {
		headers[i] = d.ShortName
		if headers[i] == "" {
			headers[i] = d.Name
		}
	}
	return headers
}

// dimensionCSVKeys returns the machine keys of the dimensions for CSV headers.
func dimensionCSVKeys(dims schema.DimensionSet) []string {
	keys := make([]string, dims.Len())
	for i, d := range dims {
		keys[i] = string(d.Key)
	}
	return keys
}

// writeLines prints each line followed by a newline.
func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
