package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
)

// detailRadarRadius is the radar size in rows for the detail view.
const detailRadarRadius = 6

// WriteMechanismDetail outputs one mechanism, dispatching based on the output format configured.
func WriteMechanismDetail(w io.Writer, detail schema.MechanismDetail, c *schema.Catalog, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, detail); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeMechanismCSV(w, detail, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeMechanismText(w, detail, c, cfg, fmtFloat)
	}
	return nil
}

// writeMechanismCSV writes one row per dimension plus the derived average.
func writeMechanismCSV(w io.Writer, detail schema.MechanismDetail, fmtFloat func(float64) string) error {
	header := []string{"id", "dimension", "value", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, v := range detail.Values {
			if err := cw.Write([]string{detail.ID, string(v.Key), fmtFloat(v.Value), v.Label}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		if err := cw.Write([]string{detail.ID, "average", fmtFloat(detail.Average), detail.Label}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
		return nil
	})
}

// writeMechanismText prints the profile with a radar chart and the qualitative sections.
func writeMechanismText(w io.Writer, detail schema.MechanismDetail, c *schema.Catalog, cfg *contract.Config, fmtFloat func(float64) string) error {
	// 1. Title and description
	title := fmt.Sprintf("%s (%s)  Rank #%d", detail.Name, detail.ID, detail.Rank)
	if err := writeLines(w, title, strings.Repeat("=", len([]rune(title)))); err != nil {
		return err
	}
	if detail.Description != "" {
		if err := writeLines(w, detail.Description); err != nil {
			return err
		}
	}

	// 2. Radar and legend
	v := make(schema.ScoreVector, len(detail.Values))
	for i, dv := range detail.Values {
		v[i] = dv.Value
	}
	canvas := NewRadarCanvas(detailRadarRadius, c.Dimensions.Len())
	if err := writeLines(w, ""); err != nil {
		return err
	}
	if err := writeLines(w, canvas.Render(v, -1)...); err != nil {
		return err
	}
	if err := writeLines(w, RadarLegend(v, c.Dimensions, cfg.Precision)...); err != nil {
		return err
	}
	summary := fmt.Sprintf("Average: %s (%s)", fmtFloat(detail.Average), labelFor(detail.Average, cfg))
	if detail.InstitutionalRequirement != "" {
		summary += fmt.Sprintf("  Institutional requirement: %s", detail.InstitutionalRequirement)
	}
	if err := writeLines(w, "", summary); err != nil {
		return err
	}

	// 3. Objective coverage
	if len(detail.Coverage) > 0 {
		lines := []string{"", "Coverage"}
		for _, oc := range detail.Coverage {
			line := fmt.Sprintf("  %s %s (%s)", oc.Level.Symbol(), oc.Name, oc.Level)
			if oc.Justification != "" {
				line += ": " + oc.Justification
			}
			lines = append(lines, line)
		}
		if err := writeLines(w, lines...); err != nil {
			return err
		}
	}

	// 4. Qualitative sections
	sections := []struct {
		title string
		items []string
	}{
		{"What it verifies", detail.WhatItVerifies},
		{"Evidence produced", detail.EvidenceProduced},
		{"Dependencies", detail.Dependencies},
		{"Evasion modes", detail.EvasionModes},
	}
	for _, s := range sections {
		if err := writeBullets(w, s.title, s.items); err != nil {
			return err
		}
	}
	var limits []string
	if detail.Limitations.Primary != "" {
		limits = append(limits, "Primary: "+detail.Limitations.Primary)
	}
	if detail.Limitations.Technical != "" {
		limits = append(limits, "Technical: "+detail.Limitations.Technical)
	}
	if err := writeBullets(w, "Limitations", limits); err != nil {
		return err
	}
	return writeBullets(w, "References", detail.References)
}

// writeBullets prints a titled bullet list, skipping empty ones.
func writeBullets(w io.Writer, title string, items []string) error {
	if len(items) == 0 {
		return nil
	}
	lines := []string{"", title}
	for _, item := range items {
		lines = append(lines, "  - "+item)
	}
	return writeLines(w, lines...)
}
