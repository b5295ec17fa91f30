//go:build basic

package integration

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noStores = []string{"VMFS_CACHE_BACKEND=none"}

// TestRankAveragesMatchScores checks every ranked average against the mean of its scores.
func TestRankAveragesMatchScores(t *testing.T) {
	out, err := runCommand(t, noStores, "rank", "--output", "json")
	require.NoError(t, err)

	var ranked []schema.RankedMechanism
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.NotEmpty(t, ranked)

	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
		sum := 0.0
		for _, v := range r.Scores {
			sum += v
		}
		assert.InDelta(t, sum/float64(len(r.Scores)), r.Average, 1e-9, r.ID)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Average, r.Average)
		}
	}
}

func TestRankMinAverageFilter(t *testing.T) {
	out, err := runCommand(t, noStores, "rank", "--output", "json", "--min-average", "3.0")
	require.NoError(t, err)

	var ranked []schema.RankedMechanism
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.Average, 3.0)
	}
}

func TestCompareCSV(t *testing.T) {
	out, err := runCommand(t, noStores, "compare", "hem", "whistleblower", "--output", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6) // header, four dimensions, average
	assert.Equal(t, []string{"dimension", "hem", "whistleblower"}, records[0])
	assert.Equal(t, "average", records[5][0])
}

func TestWhatIfClampsEdits(t *testing.T) {
	out, err := runCommand(t, noStores, "whatif", "hem", "--set", "tf=9", "--output", "json")
	require.NoError(t, err)

	var result schema.WhatIfResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 5.0, result.Edited[string(schema.TechnicalFeasibility)])
	assert.GreaterOrEqual(t, result.Delta, 0.0)
}

func TestInvalidInputsFail(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown mechanism", []string{"show", "nope"}},
		{"bad min average", []string{"rank", "--min-average", "7"}},
		{"bad sort", []string{"rank", "--sort", "speed"}},
		{"parquet to stdout", []string{"rank", "--output", "parquet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, noStores, tt.args...)
			assert.Error(t, err)
		})
	}
}
