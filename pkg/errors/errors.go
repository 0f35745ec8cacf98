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

// Package errors classifies the small taxonomy of failures this module's
// construction-time APIs can report: socket setup, registry overflow,
// request parsing, missing methods, and transport failures. It does not
// attempt the teacher's full hierarchy/pool machinery - the protocol itself
// has no error channel past these construction-time calls (see the parent
// design note on propagation policy).
package errors

import (
	"fmt"
	"runtime"
)

// Code classifies an Error the way the teacher's errors package classifies
// by numeric code, trimmed to the handful of outcomes this module reports.
type Code uint8

const (
	// CodeUnknown is the zero value; never returned by a constructor below.
	CodeUnknown Code = iota
	// CodeConstruction covers allocation/socket/bind/listen/connect failure.
	CodeConstruction
	// CodeRegistry covers registration overflow or a bad argument.
	CodeRegistry
	// CodeParse covers a malformed or truncated request.
	CodeParse
	// CodeNoMethod covers dispatch against an unregistered method name.
	CodeNoMethod
	// CodeTransport covers a read/write failure on an open connection.
	CodeTransport
)

func (c Code) String() string {
	switch c {
	case CodeConstruction:
		return "construction"
	case CodeRegistry:
		return "registry"
	case CodeParse:
		return "parse"
	case CodeNoMethod:
		return "no-method"
	case CodeTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is a code-classified error with an optional parent and the call
// site that raised it.
type Error struct {
	code   Code
	msg    string
	parent error
	file   string
	line   int
}

func newError(code Code, msg string, parent error) *Error {
	_, file, line, _ := runtime.Caller(2)
	return &Error{code: code, msg: msg, parent: parent, file: file, line: line}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("%s: %s: %s", e.code, e.msg, e.parent.Error())
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Unwrap exposes the parent error to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.parent }

// Code returns the error's classification.
func (e *Error) Code() Code { return e.code }

// Site returns the file and line that raised the error, for diagnostics.
func (e *Error) Site() (file string, line int) { return e.file, e.line }

// Construction wraps a construction-time failure (allocation, socket
// creation, bind, listen, connect).
func Construction(msg string, parent error) *Error {
	return newError(CodeConstruction, msg, parent)
}

// Registry wraps a registration overflow or bad-argument failure.
func Registry(msg string) *Error {
	return newError(CodeRegistry, msg, nil)
}

// Parse wraps a malformed or truncated request failure.
func Parse(msg string, parent error) *Error {
	return newError(CodeParse, msg, parent)
}

// NoMethod wraps a dispatch-against-unregistered-method failure.
func NoMethod(name string) *Error {
	return newError(CodeNoMethod, fmt.Sprintf("method %q is not registered", name), nil)
}

// Transport wraps a read/write failure on an open connection.
func Transport(msg string, parent error) *Error {
	return newError(CodeTransport, msg, parent)
}
