/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package log is the singleton, process-wide logger every other
// package writes progress and error lines through. It is a thin
// fmt.Fprintf wrapper, not a structured-logging framework: the
// orchestrator's progress reporting goes through orchestrator.ProgressSink instead,
// keeping this package scoped to operational messages and errors.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/mutantia/mutantia/internal/configuration"
)

var fgRed = color.New(color.FgRed).SprintFunc()
var fgYellow = color.New(color.FgYellow).SprintFunc()

var mutex = &sync.Mutex{}
var instance *log

// Init initializes a new logger with the given out and eOut io.Writer.
// If no out is provided the logger behaves as NoOp. The initialized
// instance is a singleton.
func Init(out, eOut io.Writer) {
	if out == nil || eOut == nil {
		return
	}
	if instance == nil {
		mutex.Lock()
		defer mutex.Unlock()
		if instance == nil {
			instance = &log{out: out, eOut: eOut}
		}
	}
}

// Reset removes the current log instance.
func Reset() {
	instance = nil
}

// Infof logs an information using format.
func Infof(f string, args ...any) {
	if instance == nil || silent() {
		return
	}
	instance.writef(f, args...)
}

// Infoln logs an information line.
func Infoln(a any) {
	if instance == nil || silent() {
		return
	}
	instance.writeln(a)
}

// Warnf logs a warning using format.
func Warnf(f string, args ...any) {
	if instance == nil || silent() {
		return
	}
	msg := fmt.Sprintf(f, args...)
	instance.writef("%s: %s", fgYellow("WARN"), msg)
}

// Errorf logs an error using format. Errors are never silenced.
func Errorf(f string, args ...any) {
	if instance == nil {
		return
	}
	msg := fmt.Sprintf(f, args...)
	instance.eWritef("%s: %s", fgRed("ERROR"), msg)
}

// Errorln logs an error line. Errors are never silenced.
func Errorln(a any) {
	if instance == nil {
		return
	}
	msg := fmt.Sprintf("%s: %s", fgRed("ERROR"), a)
	instance.eWriteln(msg)
}

func silent() bool {
	return configuration.Get[bool](configuration.MutantiaSilentKey)
}

type log struct {
	out  io.Writer
	eOut io.Writer
}

func (l *log) writef(f string, args ...any) {
	_, _ = fmt.Fprintf(l.out, f, args...)
}

func (l *log) writeln(a any) {
	_, _ = fmt.Fprintln(l.out, a)
}

func (l *log) eWritef(f string, args ...any) {
	_, _ = fmt.Fprintf(l.eOut, f, args...)
}

func (l *log) eWriteln(a any) {
	_, _ = fmt.Fprintln(l.eOut, a)
}
