/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package typedesc

import "github.com/rclzenoh/rclzenoh/rosidl"

// FieldKind is the closed set of field-type kinds from spec.md §3: a
// primitive, a nested type, or a string/wstring/sequence in its
// fixed/bounded/unbounded flavor. Exactly eleven values exist; nothing
// else may be assigned.
type FieldKind string

const (
	KindPrimitive          FieldKind = "primitive"
	KindNestedType         FieldKind = "nested_type"
	KindFixedString        FieldKind = "fixed_string"
	KindBoundedString      FieldKind = "bounded_string"
	KindUnboundedString    FieldKind = "unbounded_string"
	KindFixedWString       FieldKind = "fixed_wstring"
	KindBoundedWString     FieldKind = "bounded_wstring"
	KindUnboundedWString   FieldKind = "unbounded_wstring"
	KindFixedSequence      FieldKind = "fixed_sequence"
	KindBoundedSequence    FieldKind = "bounded_sequence"
	KindUnboundedSequence  FieldKind = "unbounded_sequence"
)

// FieldType is the canonical, hashable rendering of a rosidl.FieldType.
type FieldType struct {
	Kind            FieldKind
	Capacity        uint32 // meaning depends on Kind; 0 when not applicable
	NestedTypeName  string // set for NestedType and *_sequence-of-nested kinds
	PrimitiveType   string // set for Primitive and *_sequence-of-primitive kinds
}

// FromFieldType converts a parsed rosidl.FieldType into its canonical
// form. This is the one place the "closed set of eleven kinds" decision
// is made; see DESIGN.md for the rationale (array-of-string collapses
// the element's own bounded-string capacity into the array kind).
func FromFieldType(ft rosidl.FieldType) FieldType {
	isStringy := ft.Primitive == rosidl.PrimString || ft.Primitive == rosidl.PrimWString
	isW := ft.Primitive == rosidl.PrimWString

	if isStringy {
		switch ft.Array {
		case rosidl.ArrayNone:
			if ft.StringCap > 0 {
				return FieldType{Kind: pick(isW, KindBoundedWString, KindBoundedString), Capacity: ft.StringCap}
			}
			return FieldType{Kind: pick(isW, KindUnboundedWString, KindUnboundedString)}
		case rosidl.ArrayFixed:
			return FieldType{Kind: pick(isW, KindFixedWString, KindFixedString), Capacity: ft.ArrayCap}
		case rosidl.ArrayBounded:
			return FieldType{Kind: pick(isW, KindBoundedWString, KindBoundedString), Capacity: ft.ArrayCap}
		default: // ArrayUnbounded
			return FieldType{Kind: pick(isW, KindUnboundedWString, KindUnboundedString)}
		}
	}

	nestedName := ""
	primName := ""
	if ft.IsNested() {
		nestedName = ft.Nested.String()
	} else {
		primName = ft.Primitive.String()
	}

	switch ft.Array {
	case rosidl.ArrayNone:
		if ft.IsNested() {
			return FieldType{Kind: KindNestedType, NestedTypeName: nestedName}
		}
		return FieldType{Kind: KindPrimitive, PrimitiveType: primName}
	case rosidl.ArrayFixed:
		return FieldType{Kind: KindFixedSequence, Capacity: ft.ArrayCap, NestedTypeName: nestedName, PrimitiveType: primName}
	case rosidl.ArrayBounded:
		return FieldType{Kind: KindBoundedSequence, Capacity: ft.ArrayCap, NestedTypeName: nestedName, PrimitiveType: primName}
	default: // ArrayUnbounded
		return FieldType{Kind: KindUnboundedSequence, NestedTypeName: nestedName, PrimitiveType: primName}
	}
}

func pick(cond bool, a, b FieldKind) FieldKind {
	if cond {
		return a
	}
	return b
}

func (ft FieldType) toMap() map[string]interface{} {
	return map[string]interface{}{
		"kind":              string(ft.Kind),
		"capacity":          ft.Capacity,
		"nested_type_name":  ft.NestedTypeName,
		"primitive_type":    ft.PrimitiveType,
	}
}

// FieldDescriptor is one field record in a TypeDescription's field list.
// Declaration order of the owning type's field list is preserved.
type FieldDescriptor struct {
	Name string
	Type FieldType
}

func (f FieldDescriptor) toMap() map[string]interface{} {
	return map[string]interface{}{
		"name": f.Name,
		"type": f.Type.toMap(),
	}
}

// ConstantDescriptor is one constant record.
type ConstantDescriptor struct {
	Name          string
	PrimitiveType string
	Value         string
}

func (c ConstantDescriptor) toMap() map[string]interface{} {
	return map[string]interface{}{
		"name":           c.Name,
		"primitive_type": c.PrimitiveType,
		"value":          c.Value,
	}
}

// TypeDescription is the canonical document a single message/request/
// response/goal/result/feedback body hashes to.
type TypeDescription struct {
	TypeName  string
	Fields    []FieldDescriptor
	Constants []ConstantDescriptor
}

func (td TypeDescription) toMap() map[string]interface{} {
	fields := make([]interface{}, len(td.Fields))
	for i, f := range td.Fields {
		fields[i] = f.toMap()
	}
	consts := make([]interface{}, len(td.Constants))
	for i, c := range td.Constants {
		consts[i] = c.toMap()
	}
	return map[string]interface{}{
		"type_name": td.TypeName,
		"fields":    fields,
		"constants": consts,
	}
}

// Document is the full hashable unit: a primary TypeDescription plus the
// deduplicated, name-sorted list of every type it transitively
// references (spec.md §3: "Referenced type descriptors appear in a
// canonicalized, deterministically-ordered list").
type Document struct {
	Primary              TypeDescription
	ReferencedTypeDescrs []TypeDescription
}

func (d Document) CanonicalJSON() string {
	refs := make([]interface{}, len(d.ReferencedTypeDescrs))
	for i, r := range d.ReferencedTypeDescrs {
		refs[i] = r.toMap()
	}
	m := d.Primary.toMap()
	m["referenced_type_descriptions"] = refs
	return canonicalJSON(m)
}
