// Copyright 2023 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DEFAULT is the name of the default logger
const DEFAULT = "default"

// Logger is the basic interface for logging
type Logger interface {
	Log(skip int, level Level, format string, v ...any)
	GetLevel() Level
	IsEnabled(level Level) bool
}

// LoggerImpl writes formatted events to a zap core
type LoggerImpl struct {
	name  string
	level atomic.Int32
	zl    atomic.Pointer[zap.Logger]
}

var _ Logger = (*LoggerImpl)(nil)

// NewLoggerWithCore creates a logger writing to the given zap core
func NewLoggerWithCore(name string, level Level, core zapcore.Core) *LoggerImpl {
	l := &LoggerImpl{name: name}
	l.SetCore(core)
	l.SetLevel(level)
	return l
}

// SetCore replaces the sink of the logger
func (l *LoggerImpl) SetCore(core zapcore.Core) {
	l.zl.Store(zap.New(core, zap.AddCaller()).Named(l.name))
}

// SetLevel changes the minimum level of the logger
func (l *LoggerImpl) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// GetLevel returns the minimum level of the logger
func (l *LoggerImpl) GetLevel() Level {
	return Level(l.level.Load())
}

// IsEnabled reports whether events of the level would be written
func (l *LoggerImpl) IsEnabled(level Level) bool {
	current := l.GetLevel()
	return current != NONE && level >= current
}

// Log writes an event. skip=0 reports the caller of Log as the event source.
func (l *LoggerImpl) Log(skip int, level Level, format string, v ...any) {
	if !l.IsEnabled(level) {
		return
	}
	msg := format
	if len(v) > 0 {
		msg = fmt.Sprintf(format, v...)
	}
	if ce := l.zl.Load().WithOptions(zap.AddCallerSkip(skip+1)).Check(level.zapLevel(), msg); ce != nil {
		ce.Write()
	}
}

// Sync flushes buffered events
func (l *LoggerImpl) Sync() error {
	return l.zl.Load().Sync()
}

var (
	loggersMu sync.RWMutex
	loggers   = map[string]*LoggerImpl{}

	defaultLevel = INFO
	defaultCore  = newCore("console", os.Stderr)
)

func newCore(mode string, w zapcore.WriteSyncer) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if mode == "json" {
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	// level filtering is done by LoggerImpl
	return zapcore.NewCore(enc, zapcore.Lock(w), zapcore.DebugLevel)
}

// InitLoggers replaces the sink of every logger. mode is "console" or "json".
func InitLoggers(mode string, level Level) {
	SetCore(newCore(mode, os.Stderr), level)
}

// SetCore replaces the sink and level of all current and future loggers
func SetCore(core zapcore.Core, level Level) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	defaultCore = core
	defaultLevel = level
	for _, l := range loggers {
		l.SetCore(core)
		l.SetLevel(level)
	}
}

// GetLogger returns the named logger, creating it on first use
func GetLogger(name string) Logger {
	loggersMu.RLock()
	l, ok := loggers[name]
	loggersMu.RUnlock()
	if ok {
		return l
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok = loggers[name]; ok {
		return l
	}
	l = NewLoggerWithCore(name, defaultLevel, defaultCore)
	loggers[name] = l
	return l
}

// GetLevel returns the level of the default logger
func GetLevel() Level {
	return GetLogger(DEFAULT).GetLevel()
}

// IsDebug reports whether the default logger writes debug events
func IsDebug() bool {
	return GetLogger(DEFAULT).IsEnabled(DEBUG)
}
