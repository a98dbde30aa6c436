package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONIncludesBaseAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "shelter", Out: &buf})
	l = l.With(map[string]any{"dog_id": "d1"})

	l.Info("reconciled", map[string]any{"cascaded": 2, "": "ignored"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shelter", entry["app"])
	assert.Equal(t, "d1", entry["dog_id"])
	assert.Equal(t, "reconciled", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 2, entry["cascaded"])
	assert.NotContains(t, entry, "")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Out: &buf})

	l.Debug("nope", nil)
	l.Info("nope", nil)
	l.Warn("yes", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `msg="yes"`)
}

func TestTextFormatOrder(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Out: &buf}).(*stdLogger)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Debug("hi there", map[string]any{"b": 2, "a": 1})
	assert.Equal(t, "ts=2026-01-02T03:04:05Z level=debug msg=\"hi there\" a=1 b=2\n", buf.String())
}

func TestWithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Options{Format: FormatJSON, Out: &buf})
	_ = parent.With(map[string]any{"child": true})

	parent.Info("x", nil)
	assert.NotContains(t, buf.String(), "child")
}

func TestParse(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel(" DEBUG "))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel("loud"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.NotPanics(t, func() { l.Error("boom", map[string]any{"k": "v"}) })
}
