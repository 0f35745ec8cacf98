/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logging wraps logrus behind a small structured-field interface so
// the core packages (server, client) never import logrus types directly in
// their public signatures - they accept a Logger and fall back to a
// discard logger when the caller passes nil.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is the minimal structured logging surface used across this module.
type Logger interface {
	// WithFields returns a derived Logger that always carries field.
	WithFields(field Fields) Logger

	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// FuncLog lazily produces a Logger, mirroring the teacher's dependency
// injection convention for loggers created after configuration is loaded.
type FuncLog func() Logger

type logrusLogger struct {
	entry *logrus.Entry
}

// New wraps l as a Logger. A nil l is replaced by a logrus instance writing
// to out (os.Stderr is the typical caller choice); passing io.Discard
// silences output entirely.
func New(l *logrus.Logger, out io.Writer) Logger {
	if l == nil {
		l = logrus.New()
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if out != nil {
		l.SetOutput(out)
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// Discard returns a Logger that drops every message. Used as the fallback
// when a server, client or async call is constructed without a logger.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) WithFields(field Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(field))}
}

func (l *logrusLogger) Debug(msg string) { l.entry.Debug(msg) }
func (l *logrusLogger) Info(msg string)  { l.entry.Info(msg) }
func (l *logrusLogger) Warn(msg string)  { l.entry.Warn(msg) }
func (l *logrusLogger) Error(msg string) { l.entry.Error(msg) }
