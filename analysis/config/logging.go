// Copyright 2026 The SVF Go Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogLevel is the verbosity of a LogGroup
type LogLevel int

const (
	// ErrLevel=1 - the minimum level of logging.
	ErrLevel LogLevel = iota + 1

	// WarnLevel=2 - the level for logging warnings, and errors
	WarnLevel

	// InfoLevel=3 - the level for logging high-level information, results
	InfoLevel

	// DebugLevel=4 - the level for debugging information. The tool will run properly on large programs with
	// that level of debug information.
	DebugLevel

	// TraceLevel=5 - the level for tracing. The tool will not run properly on large programs with that level
	// of information, but this is useful on smaller testing programs.
	TraceLevel
)

func (l LogLevel) logrusLevel() logrus.Level {
	switch {
	case l <= ErrLevel:
		return logrus.ErrorLevel
	case l == WarnLevel:
		return logrus.WarnLevel
	case l == InfoLevel:
		return logrus.InfoLevel
	case l == DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// LogGroup is a leveled logger. Log groups derived with WithField share the output and level of their parent.
type LogGroup struct {
	level  LogLevel
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewLogGroup returns a log group that is configured to the logging settings stored inside the config
func NewLogGroup(config *Config) *LogGroup {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level := LogLevel(config.LogLevel)
	logger.SetLevel(level.logrusLevel())
	return &LogGroup{
		level:  level,
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

// WithField returns a log group that annotates every message with key=value
func (l *LogGroup) WithField(key string, value any) *LogGroup {
	return &LogGroup{
		level:  l.level,
		logger: l.logger,
		entry:  l.entry.WithField(key, value),
	}
}

// SetAllOutput sets all the output writers to the writer provided
func (l *LogGroup) SetAllOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// SetLevel sets the level of the log group, and of all the groups sharing its output
func (l *LogGroup) SetLevel(level LogLevel) {
	l.level = level
	l.logger.SetLevel(level.logrusLevel())
}

// Level returns the level of the log group
func (l *LogGroup) Level() LogLevel {
	return l.level
}

// Tracef prints to the trace level. Arguments are handled in the manner of Printf
func (l *LogGroup) Tracef(format string, v ...any) {
	l.entry.Tracef(format, v...)
}

// Debugf prints to the debug level. Arguments are handled in the manner of Printf
func (l *LogGroup) Debugf(format string, v ...any) {
	l.entry.Debugf(format, v...)
}

// Infof prints to the info level. Arguments are handled in the manner of Printf
func (l *LogGroup) Infof(format string, v ...any) {
	l.entry.Infof(format, v...)
}

// Warnf prints to the warning level. Arguments are handled in the manner of Printf
func (l *LogGroup) Warnf(format string, v ...any) {
	l.entry.Warnf(format, v...)
}

// Errorf prints to the error level. Arguments are handled in the manner of Printf
func (l *LogGroup) Errorf(format string, v ...any) {
	l.entry.Errorf(format, v...)
}
