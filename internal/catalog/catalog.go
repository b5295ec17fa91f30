// Package catalog loads and validates verification mechanism catalogues.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/vmfs/schema"
	"gopkg.in/yaml.v3"
)

//go:embed vmfs.yaml
var defaultCatalog []byte

// Format is the encoding of a catalogue source.
type Format string

// All supported formats.
const (
	YAMLFormat Format = "yaml"
	JSONFormat Format = "json"
)

// Sentinel errors for catalogue validation.
var (
	ErrDuplicateID      = errors.New("duplicate id")
	ErrUnknownDimension = schema.ErrUnknownDimension
	ErrUnknownObjective = errors.New("unknown objective")
	ErrInvalidCatalog   = errors.New("invalid catalog")
)

// validRequirements lists the accepted institutional requirement levels.
var validRequirements = map[string]struct{}{
	"":       {},
	"low":    {},
	"medium": {},
	"high":   {},
}

type rawCatalog struct {
	Dimensions []schema.Dimension `json:"dimensions" yaml:"dimensions"`
	Objectives []schema.Objective `json:"objectives" yaml:"objectives"`
	Mechanisms []rawMechanism     `json:"mechanisms" yaml:"mechanisms"`
	Findings   []schema.Finding   `json:"findings" yaml:"findings"`
}

type rawMechanism struct {
	ID                       string                         `json:"id" yaml:"id"`
	Name                     string                         `json:"name" yaml:"name"`
	ShortName                string                         `json:"short_name" yaml:"short_name"`
	Description              string                         `json:"description" yaml:"description"`
	EvidenceProduced         []string                       `json:"evidence_produced" yaml:"evidence_produced"`
	WhatItVerifies           []string                       `json:"what_it_verifies" yaml:"what_it_verifies"`
	Dependencies             []string                       `json:"dependencies" yaml:"dependencies"`
	EvasionModes             []string                       `json:"evasion_modes" yaml:"evasion_modes"`
	Limitations              schema.Limitations             `json:"limitations" yaml:"limitations"`
	InstitutionalRequirement string                         `json:"institutional_requirement" yaml:"institutional_requirement"`
	References               []string                       `json:"references" yaml:"references"`
	Scores                   map[string]float64             `json:"scores" yaml:"scores"`
	Coverage                 map[string]schema.CoverageCell `json:"coverage" yaml:"coverage"`
}

// FormatFor picks the format from a file extension. Anything but .json is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONFormat
	}
	return YAMLFormat
}

// Read returns the raw bytes of a catalogue source. An empty path means the embedded catalogue.
func Read(path string) ([]byte, Format, error) {
	if path == "" {
		return defaultCatalog, YAMLFormat, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return data, FormatFor(path), nil
}

// Load reads, parses and validates a catalogue.
func Load(path string) (*schema.Catalog, error) {
	data, format, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Default returns the embedded catalogue.
func Default() (*schema.Catalog, error) {
	return Parse(defaultCatalog, YAMLFormat)
}

// Parse decodes and validates a catalogue. Unknown fields are rejected.
func Parse(data []byte, format Format) (*schema.Catalog, error) {
	var raw rawCatalog
	switch format {
	case JSONFormat:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: failed to decode JSON: %w", ErrInvalidCatalog, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: failed to decode YAML: %w", ErrInvalidCatalog, err)
		}
	}
	return build(&raw)
}

// build validates the raw catalogue and converts it into the runtime model.
func build(raw *rawCatalog) (*schema.Catalog, error) {
	// 1. Dimensions fall back to the framework defaults
	dims := schema.DimensionSet(raw.Dimensions)
	if len(dims) == 0 {
		dims = schema.DefaultDimensions()
	}
	seenDims := make(map[schema.DimensionKey]struct{}, len(dims))
	for _, d := range dims {
		if d.Key == "" {
			return nil, fmt.Errorf("%w: dimension without key", ErrInvalidCatalog)
		}
		if _, dup := seenDims[d.Key]; dup {
			return nil, fmt.Errorf("%w: dimension %s", ErrDuplicateID, d.Key)
		}
		seenDims[d.Key] = struct{}{}
	}

	// 2. Objectives must be unique
	objectives := make(map[string]struct{}, len(raw.Objectives))
	for _, o := range raw.Objectives {
		if o.ID == "" {
			return nil, fmt.Errorf("%w: objective without id", ErrInvalidCatalog)
		}
		if _, dup := objectives[o.ID]; dup {
			return nil, fmt.Errorf("%w: objective %s", ErrDuplicateID, o.ID)
		}
		objectives[o.ID] = struct{}{}
	}

	// 3. Mechanisms carry scores and coverage that reference the above
	c := &schema.Catalog{
		Dimensions: dims,
		Objectives: raw.Objectives,
		Mechanisms: make([]schema.Mechanism, 0, len(raw.Mechanisms)),
		Findings:   raw.Findings,
	}
	seen := make(map[string]struct{}, len(raw.Mechanisms))
	for _, rm := range raw.Mechanisms {
		if rm.ID == "" {
			return nil, fmt.Errorf("%w: mechanism without id", ErrInvalidCatalog)
		}
		if _, dup := seen[rm.ID]; dup {
			return nil, fmt.Errorf("%w: mechanism %s", ErrDuplicateID, rm.ID)
		}
		seen[rm.ID] = struct{}{}

		m, err := buildMechanism(rm, dims, objectives)
		if err != nil {
			return nil, fmt.Errorf("mechanism %s: %w", rm.ID, err)
		}
		c.Mechanisms = append(c.Mechanisms, m)
	}
	return c, nil
}

func buildMechanism(rm rawMechanism, dims schema.DimensionSet, objectives map[string]struct{}) (schema.Mechanism, error) {
	// Aliases are accepted in score maps and normalized to canonical keys
	scores := make(map[string]float64, len(rm.Scores))
	for key, value := range rm.Scores {
		i, ok := dims.Resolve(key)
		if !ok {
			return schema.Mechanism{}, fmt.Errorf("%w: %s", ErrUnknownDimension, key)
		}
		canonical := string(dims[i].Key)
		if _, dup := scores[canonical]; dup {
			return schema.Mechanism{}, fmt.Errorf("%w: score %s given twice", ErrDuplicateID, canonical)
		}
		scores[canonical] = value
	}
	vector, err := schema.NewScoreVector(dims, scores)
	if err != nil {
		return schema.Mechanism{}, err
	}

	coverage := make(map[string]schema.CoverageCell, len(rm.Coverage))
	for objectiveID, cell := range rm.Coverage {
		if _, ok := objectives[objectiveID]; !ok {
			return schema.Mechanism{}, fmt.Errorf("%w: %s", ErrUnknownObjective, objectiveID)
		}
		cell.Level = schema.CoverageLevel(strings.ToLower(string(cell.Level)))
		if cell.Level == "" {
			cell.Level = schema.CoverageNone
		}
		if _, ok := schema.ValidCoverageLevels[cell.Level]; !ok {
			return schema.Mechanism{}, fmt.Errorf("%w: coverage level %q for %s", ErrInvalidCatalog, cell.Level, objectiveID)
		}
		coverage[objectiveID] = cell
	}

	requirement := strings.ToLower(strings.TrimSpace(rm.InstitutionalRequirement))
	if _, ok := validRequirements[requirement]; !ok {
		return schema.Mechanism{}, fmt.Errorf("%w: institutional requirement %q", ErrInvalidCatalog, rm.InstitutionalRequirement)
	}

	name := rm.Name
	if name == "" {
		name = rm.ID
	}
	return schema.Mechanism{
		ID:                       rm.ID,
		Name:                     name,
		ShortName:                rm.ShortName,
		Description:              rm.Description,
		EvidenceProduced:         rm.EvidenceProduced,
		WhatItVerifies:           rm.WhatItVerifies,
		Dependencies:             rm.Dependencies,
		EvasionModes:             rm.EvasionModes,
		Limitations:              rm.Limitations,
		InstitutionalRequirement: requirement,
		References:               rm.References,
		Scores:                   vector,
		Coverage:                 coverage,
	}, nil
}
