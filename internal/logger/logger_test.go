package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init()
	assert.NotNil(t, InfoLogger)
	assert.NotNil(t, WarnLogger)
	assert.NotNil(t, ErrorLogger)
	assert.NotNil(t, DebugLogger)
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Info("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestInfof(t *testing.T) {
	var buf bytes.Buffer
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Infof("reconciled %s", "TX-1")

	assert.Contains(t, buf.String(), "reconciled TX-1")
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	ErrorLogger = log.New(&buf, "ERROR: ", 0)

	Error("test error")

	assert.Contains(t, buf.String(), "test error")
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	ErrorLogger = log.New(&buf, "ERROR: ", 0)

	Errorf("gateway said %d", 500)

	assert.Contains(t, buf.String(), "gateway said 500")
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	WarnLogger = log.New(&buf, "WARN: ", 0)

	Warnf("stale IPN for %s", "TX-2")

	assert.Contains(t, buf.String(), "stale IPN for TX-2")
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	DebugLogger = log.New(&buf, "DEBUG: ", 0)

	Debugf("token length %d", 42)

	assert.Contains(t, buf.String(), "token length 42")
}
