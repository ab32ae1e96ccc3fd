package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setupType struct {
	logger *RelayLogger
	buffer bytes.Buffer
}

func beforeEach(t *testing.T, level string) *setupType {
	var r setupType

	err := InitLoggerWithWriter(level, "json", &r.buffer, false)
	require.NoError(t, err)

	r.logger = GetLogger()

	return &r
}

type logType struct {
	Time   string
	Level  string
	Source struct {
		Function string
		File     string
		Line     int
	}
	Msg      string
	Stack    string
	Error    string
	Module   string
	ChainID  string `json:"chain_id"`
	ClientID string `json:"client_id"`
	Name     string
}

func parseResult(t *testing.T, setup *setupType) (string, logType) {
	raw := setup.buffer.String()
	var parsed logType

	err := json.Unmarshal(setup.buffer.Bytes(), &parsed)
	require.NoError(t, err, "fail to parse log: %s", raw)

	return raw, parsed
}

func TestLogLevel(t *testing.T) {
	setup := beforeEach(t, "info")

	setup.logger.log(context.TODO(), slog.LevelDebug, 0, "test")
	assert.Zero(t, setup.buffer.Len(), "debug log is output: %s", setup.buffer.String())
}

func TestLogLevelCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitLoggerWithWriter("DEBUG", "text", &buf, false))
	require.NoError(t, InitLoggerWithWriter("warn", "text", &buf, false))
	require.Error(t, InitLoggerWithWriter("verbose", "text", &buf, false))
	require.Error(t, InitLoggerWithWriter("info", "xml", &buf, false))
}

func TestLogLog(t *testing.T) {
	setup := beforeEach(t, "info")

	setup.logger.log(context.TODO(), slog.LevelInfo, 0, "test")
	raw, r := parseResult(t, setup)

	assert.Equal(t, "INFO", r.Level, raw)
	assert.Regexp(t, regexp.MustCompile(`/log.TestLogLog$`), r.Source.Function, raw)
}

func TestLogError(t *testing.T) {
	setup := beforeEach(t, "info")

	setup.logger.Error("testerr", fmt.Errorf("dummy"))
	raw, r := parseResult(t, setup)

	assert.Equal(t, "ERROR", r.Level, raw)
	assert.Regexp(t, regexp.MustCompile(`/log.TestLogError$`), r.Source.Function, raw)
	assert.Equal(t, "dummy", r.Error, raw)
	assert.Contains(t, r.Stack, "TestLogError", raw)
}

func TestLogWith(t *testing.T) {
	setup := beforeEach(t, "info")

	setup.logger.WithClient("ibc0", "mock-client-0").WithModule("core.client").Info("updated")
	raw, r := parseResult(t, setup)

	assert.Equal(t, "ibc0", r.ChainID, raw)
	assert.Equal(t, "mock-client-0", r.ClientID, raw)
	assert.Equal(t, "core.client", r.Module, raw)
}

func TestTimeTrack(t *testing.T) {
	setup := beforeEach(t, "debug")

	setup.logger.TimeTrack(time.Now().Add(-time.Second), "relay")
	raw, r := parseResult(t, setup)

	assert.Equal(t, "DEBUG", r.Level, raw)
	assert.Equal(t, "relay", r.Name, raw)
	assert.Regexp(t, regexp.MustCompile(`/log.TestTimeTrack$`), r.Source.Function, raw)
}
