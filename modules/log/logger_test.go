// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithCore("test", INFO, core)

	logger.Log(0, DEBUG, "hidden %d", 1)
	logger.Log(0, INFO, "shown %d", 2)
	logger.Log(0, ERROR, "failure: %v", "boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "shown 2", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "failure: boom", entries[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "test", entries[1].LoggerName)
}

func TestLoggerCaller(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithCore("test", TRACE, core)

	logger.Log(0, TRACE, "from the test")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Caller.Defined)
	assert.Contains(t, entries[0].Caller.File, "logger_test.go")
}

func TestLoggerNone(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithCore("test", NONE, core)
	logger.Log(0, ERROR, "never")
	assert.False(t, logger.IsEnabled(ERROR))
	assert.Zero(t, logs.Len())
}

func TestSetCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetCore(core, DEBUG)
	defer InitLoggers("console", INFO)

	Debug("debug %s", "event")
	Trace("trace is below debug")
	GetLogger("xorm").Log(0, WARN, "slow query")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "debug event", entries[0].Message)
	assert.Equal(t, DEFAULT, entries[0].LoggerName)
	assert.Contains(t, entries[0].Caller.File, "logger_test.go")
	assert.Equal(t, "xorm", entries[1].LoggerName)
	assert.True(t, IsDebug())
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, TRACE, LevelFromString("Trace"))
	assert.Equal(t, WARN, LevelFromString("warning"))
	assert.Equal(t, INFO, LevelFromString("bogus"))
	assert.Equal(t, "error", ERROR.String())
}
