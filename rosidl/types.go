/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package rosidl parses the three native ROS2 interface dialects
// (.msg, .srv, .action) and a subset of the OMG IDL dialect into a typed
// definition tree that TypeHasher and CodeGen both consume.
package rosidl

import "fmt"

// Primitive is the closed set of primitive field kinds a ROS2 interface
// field may carry.
type Primitive int

const (
	PrimInvalid Primitive = iota
	PrimBool
	PrimByte // alias: octet in IDL
	PrimChar
	PrimFloat32
	PrimFloat64
	PrimInt8
	PrimUInt8
	PrimInt16
	PrimUInt16
	PrimInt32
	PrimUInt32
	PrimInt64
	PrimUInt64
	PrimString
	PrimWString
)

var primitiveNames = map[Primitive]string{
	PrimBool:    "bool",
	PrimByte:    "byte",
	PrimChar:    "char",
	PrimFloat32: "float32",
	PrimFloat64: "float64",
	PrimInt8:    "int8",
	PrimUInt8:   "uint8",
	PrimInt16:   "int16",
	PrimUInt16:  "uint16",
	PrimInt32:   "int32",
	PrimUInt32:  "uint32",
	PrimInt64:   "int64",
	PrimUInt64:  "uint64",
	PrimString:  "string",
	PrimWString: "wstring",
}

var namesToPrimitive = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveNames))
	for k, v := range primitiveNames {
		m[v] = k
	}
	// IDL spells the unsigned 8-bit type "octet"; it must never surface
	// under that name again once parsed (§4.3), only "byte" downstream.
	m["octet"] = PrimByte
	return m
}()

func (p Primitive) String() string {
	if s, ok := primitiveNames[p]; ok {
		return s
	}
	return "invalid"
}

// ArrayKind distinguishes the three container shapes a field's type may
// additionally carry, orthogonal to the element Primitive/nested type.
type ArrayKind int

const (
	ArrayNone ArrayKind = iota
	ArrayFixed
	ArrayBounded
	ArrayUnbounded
)

// TypeName is the fully-qualified name of a generated type: pkg/category/Name,
// e.g. "std_msgs/msg/Int64" or "example_interfaces/srv/AddTwoInts".
type TypeName struct {
	Package  string
	Category string // "msg", "srv", or "action"
	Name     string
}

func (t TypeName) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Package, t.Category, t.Name)
}

func (t TypeName) IsZero() bool {
	return t.Package == "" && t.Name == ""
}

// FieldType is the type half of a parsed field: either a primitive (with
// an optional bounded-string capacity) or a reference to a nested type,
// optionally wrapped in an array/sequence.
type FieldType struct {
	Primitive  Primitive
	Nested     *TypeName // nil unless this field's element is a nested type
	StringCap  uint32    // capacity for string<=N / wstring<=N, 0 = unbounded
	Array      ArrayKind
	ArrayCap   uint32 // capacity for fixed arrays and bounded sequences
}

func (ft FieldType) IsNested() bool {
	return ft.Nested != nil
}

// Field is one field of a parsed message.
type Field struct {
	Name       string
	Type       FieldType
	Default    string // raw literal, empty if absent
	HasDefault bool
	Line, Col  int
}

// Constant is one UPPER_SNAKE constant declared in a message.
type Constant struct {
	Name      string
	Type      Primitive
	Value     string
	Line, Col int
}

// MessageDef is a single parsed message body (also used for service
// request/response and action goal/result/feedback bodies).
type MessageDef struct {
	Name      TypeName
	Fields    []Field
	Constants []Constant
}

// ServiceDef is a parsed .srv file: request and response message bodies
// split by the "---" separator.
type ServiceDef struct {
	Name     TypeName
	Request  MessageDef
	Response MessageDef
}

// ActionDef is a parsed .action file: goal/result/feedback bodies split
// by two "---" separators.
type ActionDef struct {
	Name     TypeName
	Goal     MessageDef
	Result   MessageDef
	Feedback MessageDef
}
