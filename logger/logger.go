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

package logger

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	loglvl "github.com/cmcp-project/cmcp/logger/level"
)

type lgr struct {
	mu  sync.Mutex
	lr  *logrus.Logger
	lvl atomic.Uint32
	fld Fields
}

func newLogrusLogger(lvl loglvl.Level) *lgr {
	l := &lgr{
		lr: logrus.New(),
	}
	l.lr.SetLevel(lvl.Logrus())
	l.lvl.Store(uint32(lvl))

	return l
}

func (l *lgr) SetLevel(lvl loglvl.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lvl.Store(uint32(lvl))
	l.lr.SetLevel(lvl.Logrus())
}

func (l *lgr) Level() loglvl.Level {
	return loglvl.Level(l.lvl.Load())
}

func (l *lgr) WithFields(f Fields) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := &lgr{
		lr:  l.lr,
		fld: l.fld.Merge(f),
	}
	n.lvl.Store(l.lvl.Load())

	return n
}

func (l *lgr) entry(f Fields) *logrus.Entry {
	return l.lr.WithFields(l.fld.Merge(f).Logrus())
}

func (l *lgr) Debug(fields Fields, msg string, args ...interface{}) {
	l.entry(fields).Debugf(msg, args...)
}

func (l *lgr) Info(fields Fields, msg string, args ...interface{}) {
	l.entry(fields).Infof(msg, args...)
}

func (l *lgr) Warn(fields Fields, msg string, args ...interface{}) {
	l.entry(fields).Warnf(msg, args...)
}

func (l *lgr) Error(fields Fields, msg string, args ...interface{}) {
	l.entry(fields).Errorf(msg, args...)
}
