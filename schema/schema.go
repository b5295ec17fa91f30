// Package schema has models, constants and shared types for all parts of vmfs.
package schema

import (
	"fmt"
	"strings"
)

// Dimension is one scored axis of evaluation for a mechanism.
type Dimension struct {
	Key         DimensionKey `json:"key" yaml:"key"`                                     // Canonical identifier (e.g. technical_feasibility)
	Name        string       `json:"name" yaml:"name"`                                   // Display name
	ShortName   string       `json:"short_name" yaml:"short_name"`                       // Compact label used in narrow tables
	Alias       string       `json:"alias,omitempty" yaml:"alias,omitempty"`             // Short sort alias (e.g. tf)
	Description string       `json:"description,omitempty" yaml:"description,omitempty"` // What a high score means
}

// DimensionSet is the fixed, ordered set of dimensions of a catalogue.
// The order defines the radar vertex order and the ScoreVector layout.
type DimensionSet []Dimension

// Len returns the number of dimensions (D).
func (ds DimensionSet) Len() int {
	return len(ds)
}

// Index returns the position of the given key, or -1 if it is not part of the set.
func (ds DimensionSet) Index(key DimensionKey) int {
	for i, d := range ds {
		if d.Key == key {
			return i
		}
	}
	return -1
}

// Resolve finds a dimension by key, alias or short name (case-insensitive).
func (ds DimensionSet) Resolve(name string) (int, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return -1, false
	}
	for i, d := range ds {
		if strings.ToLower(string(d.Key)) == needle ||
			(d.Alias != "" && strings.ToLower(d.Alias) == needle) ||
			(d.ShortName != "" && strings.ToLower(d.ShortName) == needle) {
			return i, true
		}
	}
	return -1, false
}

// Keys returns the dimension keys in canonical order.
func (ds DimensionSet) Keys() []DimensionKey {
	keys := make([]DimensionKey, len(ds))
	for i, d := range ds {
		keys[i] = d.Key
	}
	return keys
}

// ScoreVector holds one value per dimension in canonical dimension order.
// Every value lies within [MinScore, MaxScore].
type ScoreVector []float64

// NewScoreVector builds a ScoreVector from keyed raw scores.
// Missing dimensions default to MinScore and supplied values are clamped.
// Keys that are not part of the dimension set are rejected.
func NewScoreVector(dims DimensionSet, raw map[string]float64) (ScoreVector, error) {
	v := DefaultScoreVector(dims.Len())
	for key, value := range raw {
		i := dims.Index(DimensionKey(key))
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, key)
		}
		v[i] = ClampScore(value)
	}
	return v, nil
}

// DefaultScoreVector returns a vector of length d with every value at MinScore.
func DefaultScoreVector(d int) ScoreVector {
	v := make(ScoreVector, d)
	for i := range v {
		v[i] = MinScore
	}
	return v
}

// At returns the value at index i, or MinScore when i is out of range.
func (v ScoreVector) At(i int) float64 {
	if i < 0 || i >= len(v) {
		return MinScore
	}
	return v[i]
}

// Clone returns an independent copy of the vector.
func (v ScoreVector) Clone() ScoreVector {
	out := make(ScoreVector, len(v))
	copy(out, v)
	return out
}

// With returns a copy with dimension i set to the clamped value.
func (v ScoreVector) With(i int, value float64) ScoreVector {
	out := v.Clone()
	if i >= 0 && i < len(out) {
		out[i] = ClampScore(value)
	}
	return out
}

// Equal reports whether both vectors hold the same values.
func (v ScoreVector) Equal(other ScoreVector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// Map returns the vector keyed by dimension key.
func (v ScoreVector) Map(dims DimensionSet) map[string]float64 {
	out := make(map[string]float64, len(dims))
	for i, d := range dims {
		out[string(d.Key)] = v.At(i)
	}
	return out
}

// CoverageCell describes how a mechanism addresses one verification objective.
type CoverageCell struct {
	Level         CoverageLevel `json:"level" yaml:"level"`
	Justification string        `json:"justification,omitempty" yaml:"justification,omitempty"`
}

// Limitations are the biggest known weaknesses of a mechanism.
type Limitations struct {
	Primary   string `json:"primary,omitempty" yaml:"primary,omitempty"`
	Technical string `json:"technical,omitempty" yaml:"technical,omitempty"`
}

// Mechanism is an immutable catalogue entry with its original scores.
type Mechanism struct {
	ID                       string                  `json:"id"`
	Name                     string                  `json:"name"`
	ShortName                string                  `json:"short_name"`
	Description              string                  `json:"description,omitempty"`
	EvidenceProduced         []string                `json:"evidence_produced,omitempty"`
	WhatItVerifies           []string                `json:"what_it_verifies,omitempty"`
	Dependencies             []string                `json:"dependencies,omitempty"`
	EvasionModes             []string                `json:"evasion_modes,omitempty"`
	Limitations              Limitations             `json:"limitations"`
	InstitutionalRequirement string                  `json:"institutional_requirement,omitempty"` // low, medium or high
	References               []string                `json:"references,omitempty"`
	Scores                   ScoreVector             `json:"scores"`
	Coverage                 map[string]CoverageCell `json:"coverage,omitempty"` // objective id -> coverage
}

// CoverageFor returns the coverage for the objective, defaulting to none.
func (m Mechanism) CoverageFor(objectiveID string) CoverageCell {
	if cell, ok := m.Coverage[objectiveID]; ok && cell.Level != "" {
		return cell
	}
	return CoverageCell{Level: CoverageNone}
}

// DisplayName prefers the short name when present.
func (m Mechanism) DisplayName() string {
	if m.ShortName != "" {
		return m.ShortName
	}
	return m.Name
}

// Objective is a verification objective descriptor.
type Objective struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	ShortName  string `json:"short_name" yaml:"short_name"`
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// Finding is a catalogue-level key finding.
type Finding struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Catalog is the read-only, in-memory collection every component consumes.
type Catalog struct {
	Dimensions DimensionSet `json:"dimensions"`
	Objectives []Objective  `json:"objectives"`
	Mechanisms []Mechanism  `json:"mechanisms"`
	Findings   []Finding    `json:"findings,omitempty"`
}

// IndexOf returns the catalogue position of the mechanism id, or -1.
func (c *Catalog) IndexOf(id string) int {
	for i := range c.Mechanisms {
		if c.Mechanisms[i].ID == id {
			return i
		}
	}
	return -1
}

// Mechanism looks up a mechanism by id.
func (c *Catalog) Mechanism(id string) (Mechanism, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return c.Mechanisms[i], true
	}
	return Mechanism{}, false
}
