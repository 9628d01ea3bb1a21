package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
}

func TestFilteringHandlerDropsDisabledSections(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	logger.With("section", "oracle.unlisted").Debug("hidden")
	assert.Empty(t, buf.String())

	logger.With("section", "constraint").Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "section=constraint")
}

func TestFilteringHandlerMatchesSectionPrefix(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	logger.Debug("inline", "section", "scenario.runner")
	assert.Contains(t, buf.String(), "inline")
}

func TestFilteringHandlerAlwaysKeepsWarnings(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	logger.With("section", "nowhere").Warn("careful")
	assert.Contains(t, buf.String(), "careful")
}

func TestEnableSections(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf).With("section", "inference.registry")

	logger.Debug("before")
	assert.NotContains(t, buf.String(), "before")

	EnableSections("inference")
	logger.Debug("after")
	assert.Contains(t, buf.String(), "after")
}
