package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchcheck/internal/suite"
)

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiAuto, "AUTO": uiAuto, " on ": uiOn, "off": uiOff} {
		got, err := readUIMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := readUIMode("sometimes")
	assert.ErrorContains(t, err, "invalid --ui value")
}

func TestProgressView(t *testing.T) {
	assert.True(t, progressView(uiOn, false, 1))
	assert.False(t, progressView(uiOn, true, 5))
	assert.False(t, progressView(uiOff, false, 5))
	assert.False(t, progressView(uiAuto, false, 1))
}

func TestPrintResults(t *testing.T) {
	results := []suite.Result{
		{Case: "initial", Status: suite.StatusPassed},
		{Case: "edit", Status: suite.StatusFailed, Err: errors.New("segment mismatch\nline two")},
		{Case: "broken", Status: suite.StatusError, Err: errors.New("no such file")},
	}

	var buf bytes.Buffer
	printResults(&buf, results, false, false)
	out := buf.String()
	assert.Contains(t, out, "PASS initial (0.0 ms)\n")
	assert.Contains(t, out, "FAIL edit\n    segment mismatch\n    line two\n")
	assert.Contains(t, out, "ERROR broken: no such file\n")
	assert.Contains(t, out, "3 cases, 2 failed\n")

	buf.Reset()
	printResults(&buf, results, true, false)
	assert.NotContains(t, buf.String(), "PASS")
	assert.NotContains(t, buf.String(), "cases,")
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderVersionJSON(&buf, versionInfo{Version: "1.2.3"}, true))

	var payload versionPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "watchcheck", payload.Tool)
	assert.Equal(t, "1.2.3", payload.Version)
	assert.Equal(t, "unknown", payload.GitCommit)

	buf.Reset()
	require.NoError(t, renderVersionJSON(&buf, versionInfo{Version: "1.2.3", GitCommit: "abc"}, false))
	assert.NotContains(t, buf.String(), "git_commit")
}
