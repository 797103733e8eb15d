package plugins

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadResultReport(t *testing.T) {
	result := &LoadResult{
		Identifier: "foo",
		Module:     Module{"zeta": 1, "default": map[string]any{"name": "foo-plugin"}, "alpha": 2},
		Plugin:     map[string]any{"name": "foo-plugin"},
		Strategy:   StrategyLocalPath,
		Path:       "/work/node_modules/foo",
		Duration:   1500 * time.Microsecond,
		Attempts: []Attempt{
			{Strategy: StrategyDirect, Path: "foo", Outcome: OutcomeFailed, Err: errors.New("not registered")},
			{Strategy: StrategyLocalPath, Path: "/work/node_modules/foo", Outcome: OutcomeLoaded},
		},
	}

	report := result.Report()

	assert.Equal(t, "foo", report.Identifier)
	assert.True(t, report.Found)
	assert.Equal(t, "foo-plugin", report.PluginName)
	assert.Equal(t, []string{"alpha", "default", "zeta"}, report.Exports)
	assert.InDelta(t, 1.5, report.DurationMS, 0.001)
	assert.Empty(t, report.LastError)

	require.Len(t, report.Attempts, 2)
	assert.Equal(t, "not registered", report.Attempts[0].Error)
	assert.Empty(t, report.Attempts[1].Error)
}

func TestLoadResultReport_Missing(t *testing.T) {
	result := &LoadResult{Identifier: "ghost", LastErr: ErrNotFound}

	report := result.Report()

	assert.False(t, report.Found)
	assert.Empty(t, report.PluginName)
	assert.Nil(t, report.Exports)
	assert.Equal(t, ErrNotFound.Error(), report.LastError)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"identifier":"ghost","found":false,"last_error":"module not found","duration_ms":0,"attempts":[]}`, string(data))
}

func TestReports(t *testing.T) {
	reports := Reports([]*LoadResult{{Identifier: "a"}, {Identifier: "b"}})
	require.Len(t, reports, 2)
	assert.Equal(t, "a", reports[0].Identifier)
	assert.Equal(t, "b", reports[1].Identifier)
}

func TestReports_NilResult(t *testing.T) {
	var missing *LoadResult
	assert.NotPanics(t, func() { missing.Report() })

	reports := Reports([]*LoadResult{{Identifier: "a"}, nil})
	require.Len(t, reports, 2)
	assert.False(t, reports[1].Found)
	assert.Empty(t, reports[1].Identifier)
	assert.NotNil(t, reports[1].Attempts)
}
