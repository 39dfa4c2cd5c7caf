package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogsFiltersBySeverity(t *testing.T) {
	Debug("debug entry")
	Warning("warning entry")
	Errorf("error entry %d", 7)

	logs := GetLogs(10, "WARNING")
	joined := strings.Join(logs, "\n")
	assert.Contains(t, joined, "warning entry")
	assert.Contains(t, joined, "error entry 7")
	assert.NotContains(t, joined, "debug entry")
	assert.True(t, strings.HasSuffix(logs[0], "error entry 7"), "newest entry first")
}

func TestGetLogsHonoursLimit(t *testing.T) {
	for i := 0; i < 5; i++ {
		Info("limited")
	}
	assert.Len(t, GetLogs(3, "DEBUG"), 3)
}
