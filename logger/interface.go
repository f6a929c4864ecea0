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

// Package logger provides the structured logging facade used by every CMCP
// package. It wraps logrus, trimmed to what the node runtime, client, and
// server sessions need: per-field structured entries and a level filter,
// without the syslog/file/hook fan-out a full-featured logging facade
// would offer for arbitrary server processes.
package logger

import (
	loglvl "github.com/cmcp-project/cmcp/logger/level"
)

// Logger is the structured logging facade passed into the node runtime and
// sessions. Callers that want logging disabled should construct one with
// New(level.NilLevel) rather than pass a nil Logger.
type Logger interface {
	// SetLevel changes the minimum severity emitted from this point on.
	SetLevel(lvl loglvl.Level)
	// Level returns the current minimum severity.
	Level() loglvl.Level

	// WithFields returns a derived Logger that always includes the given
	// fields in addition to any later per-call fields.
	WithFields(f Fields) Logger

	Debug(fields Fields, msg string, args ...interface{})
	Info(fields Fields, msg string, args ...interface{})
	Warn(fields Fields, msg string, args ...interface{})
	Error(fields Fields, msg string, args ...interface{})
}

// New returns a Logger at the given minimum level, backed by logrus.
func New(lvl loglvl.Level) Logger {
	return newLogrusLogger(lvl)
}
