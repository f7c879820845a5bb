// Copyright 2014 The Gogs Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

func Trace(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, TRACE, format, v...)
}

func Debug(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, DEBUG, format, v...)
}

func Info(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, INFO, format, v...)
}

func Warn(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, WARN, format, v...)
}

func Error(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, ERROR, format, v...)
}

// Fatal records the event and exits the process
func Fatal(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, FATAL, format, v...)
}
