package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainCmd_Use(t *testing.T) {
	assert.Equal(t, "explain [profile]", explainCmd.Use)
	assert.NotNil(t, explainCmd.Flags().Lookup("rejected"))
}

func TestExplainCmd_Profile(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "explain", "tmr1")

	require.NoError(t, err)
	assert.Contains(t, out, "verdict")
	assert.Contains(t, out, "MFINTOSC/16")
	assert.Contains(t, out, "accepted")
	assert.Contains(t, out, "outside tolerance")
	assert.Contains(t, out, "18 of 20 combinations shown are admissible.")
}

func TestExplainCmd_RejectedOnly(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "explain", "tmr1", "--rejected")

	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "outside tolerance"))
	assert.NotContains(t, out, "\taccepted")
	assert.Contains(t, out, "0 of 2 combinations shown are admissible.")
}

func TestExplainCmd_AdHocJSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "explain",
		"-s", "5", "--postscalers", "2", "-t", "1", "--tolerance", "0.25", "--json")

	require.NoError(t, err)
	var evaluations []struct {
		Count   int    `json:"count"`
		Verdict string `json:"verdict"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &evaluations))
	require.Len(t, evaluations, 1)
	assert.Equal(t, 2, evaluations[0].Count)
	assert.Equal(t, "outside tolerance", evaluations[0].Verdict)
}

func TestExplainCmd_OutOfRange(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "explain", "-s", "8MHz", "-t", "1", "--count-bits", "8")

	require.NoError(t, err)
	assert.Contains(t, out, "count out of range")
	assert.Contains(t, out, "0 of 1 combinations shown are admissible.")
}

func TestExplainCmd_NoServices(t *testing.T) {
	_, err := execute(t, "explain", "tmr0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "solver service not configured")
}
