/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rosidl

import "fmt"

// BadInterfaceKind enumerates the taxonomy of parse failures a caller
// may need to branch on.
type BadInterfaceKind string

const (
	InvalidName       BadInterfaceKind = "InvalidName"
	InvalidType       BadInterfaceKind = "InvalidType"
	InvalidValue      BadInterfaceKind = "InvalidValue"
	InvalidSeparator  BadInterfaceKind = "InvalidSeparator"
	InvalidAnnotation BadInterfaceKind = "InvalidAnnotation"
	DuplicateField    BadInterfaceKind = "DuplicateField"
)

// BadInterface reports a parse failure with enough location detail for an
// editor to jump to it.
type BadInterface struct {
	Path string
	Line int
	Col  int
	Kind BadInterfaceKind
	Msg  string
}

func (e *BadInterface) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Path, e.Line, e.Col, e.Kind, e.Msg)
}

func badInterface(path string, line, col int, kind BadInterfaceKind, f string, args ...interface{}) *BadInterface {
	return &BadInterface{Path: path, Line: line, Col: col, Kind: kind, Msg: fmt.Sprintf(f, args...)}
}
