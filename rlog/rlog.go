/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package rlog is the diagnostic sink used across the rclzenoh packages.
// It is deliberately thin: one level-gated writer emitting RFC5424 lines,
// with optional structured fields for the cases (dropped peer traffic,
// QoS fallbacks) where a field beyond the message matters.
package rlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/crewjam/rfc5424"
)

type Level int

const (
	OFF Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	CRITICAL
)

func (l Level) String() string {
	switch l {
	case OFF:
		return `OFF`
	case DEBUG:
		return `DEBUG`
	case INFO:
		return `INFO`
	case WARN:
		return `WARN`
	case ERROR:
		return `ERROR`
	case CRITICAL:
		return `CRITICAL`
	}
	return `UNKNOWN`
}

func (l Level) Valid() bool {
	return l >= OFF && l <= CRITICAL
}

func (l Level) priority() rfc5424.Priority {
	switch l {
	case DEBUG, INFO:
		return rfc5424.Info
	case WARN:
		return rfc5424.Warning
	case ERROR, CRITICAL:
		return rfc5424.Err
	}
	return rfc5424.Info
}

const (
	defaultDepth = 3
	defaultMsgID = `rclzenoh`
)

var ErrNotOpen = errors.New("logger is not open")

// Logger is a minimal multi-writer structured logger, modeled on the
// ingest muxer's diagnostic logger but trimmed to what a library needs:
// no relays, no UDP shipping, just writers plus level gating.
type Logger struct {
	hostname string
	appname  string
	mtx      sync.Mutex
	wtrs     []io.Writer
	lvl      Level
}

// New creates a Logger writing to wtr at level INFO.
func New(wtr io.Writer) *Logger {
	l := &Logger{wtrs: []io.Writer{wtr}, lvl: INFO}
	l.hostname, _ = os.Hostname()
	if args := os.Args; len(args) > 0 {
		l.appname = filepath.Base(args[0])
	}
	return l
}

// Discard returns a logger that throws every line away; used when a
// caller does not supply its own sink.
func Discard() *Logger {
	return New(io.Discard)
}

func (l *Logger) SetLevel(lvl Level) error {
	if !lvl.Valid() {
		return fmt.Errorf("invalid log level %d", lvl)
	}
	l.mtx.Lock()
	l.lvl = lvl
	l.mtx.Unlock()
	return nil
}

func (l *Logger) AddWriter(wtr io.Writer) {
	l.mtx.Lock()
	l.wtrs = append(l.wtrs, wtr)
	l.mtx.Unlock()
}

func (l *Logger) Debugf(f string, args ...interface{}) { l.outputf(DEBUG, f, args...) }
func (l *Logger) Infof(f string, args ...interface{})  { l.outputf(INFO, f, args...) }
func (l *Logger) Warnf(f string, args ...interface{})  { l.outputf(WARN, f, args...) }
func (l *Logger) Errorf(f string, args ...interface{}) { l.outputf(ERROR, f, args...) }

// Warn emits a structured WARN line; used for recoverable peer-protocol
// faults (bad attachment, undecodable payload, unsupported QoS request).
func (l *Logger) Warn(msg string, sds ...rfc5424.SDParam) { l.output(WARN, msg, sds...) }
func (l *Logger) Error(msg string, sds ...rfc5424.SDParam) { l.output(ERROR, msg, sds...) }

func (l *Logger) outputf(lvl Level, f string, args ...interface{}) {
	l.output(lvl, fmt.Sprintf(f, args...))
}

func (l *Logger) output(lvl Level, msg string, sds ...rfc5424.SDParam) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.lvl == OFF || lvl < l.lvl || len(l.wtrs) == 0 {
		return
	}
	ln := l.render(lvl, msg, sds...)
	for _, w := range l.wtrs {
		io.WriteString(w, ln)
		io.WriteString(w, "\n")
	}
}

func (l *Logger) render(lvl Level, msg string, sds ...rfc5424.SDParam) string {
	m := rfc5424.Message{
		Priority:  lvl.priority(),
		Timestamp: time.Now(),
		Hostname:  trim(255, l.hostname),
		AppName:   trim(48, l.appname),
		MessageID: trim(32, callLoc()),
		Message:   []byte(msg),
	}
	if len(sds) > 0 {
		m.StructuredData = []rfc5424.StructuredData{{ID: `rclz@1`, Parameters: sds}}
	}
	if b, err := m.MarshalBinary(); err == nil {
		return strings.TrimRight(string(b), "\n\t\r")
	}
	return msg
}

func callLoc() string {
	_, file, line, ok := runtime.Caller(defaultDepth + 1)
	if !ok {
		return defaultMsgID
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func trim(n int, s string) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// KV builds a structured-data parameter out of a name/value pair.
func KV(name string, value interface{}) rfc5424.SDParam {
	switch v := value.(type) {
	case string:
		return rfc5424.SDParam{Name: name, Value: v}
	default:
		return rfc5424.SDParam{Name: name, Value: fmt.Sprintf("%v", value)}
	}
}

// KVErr builds an "error" structured-data parameter.
func KVErr(err error) rfc5424.SDParam {
	return KV("error", err)
}
