/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package typedesc

import (
	"sort"

	"github.com/rclzenoh/rclzenoh/rosidl"
)

func buildFields(fields []rosidl.Field) []FieldDescriptor {
	out := make([]FieldDescriptor, len(fields))
	for i, f := range fields {
		out[i] = FieldDescriptor{Name: f.Name, Type: FromFieldType(f.Type)}
	}
	return out
}

func buildConstants(consts []rosidl.Constant) []ConstantDescriptor {
	out := make([]ConstantDescriptor, len(consts))
	for i, c := range consts {
		out[i] = ConstantDescriptor{Name: c.Name, PrimitiveType: c.Type.String(), Value: c.Value}
	}
	return out
}

// BuildMessage converts a single parsed message into its own
// TypeDescription, without walking nested-type references. Use
// BuildDocument to get the full hashable unit including references.
func BuildMessage(md rosidl.MessageDef) *TypeDescription {
	return &TypeDescription{
		TypeName:  md.Name.String(),
		Fields:    buildFields(md.Fields),
		Constants: buildConstants(md.Constants),
	}
}

// BuildDocument builds the primary TypeDescription for md plus the
// deduplicated, name-sorted set of every type it transitively
// references, resolved against reg.
func BuildDocument(reg *rosidl.Registry, md rosidl.MessageDef) (*Document, error) {
	primary := BuildMessage(md)
	refs := map[string]TypeDescription{}
	if err := collectReferences(reg, md, map[string]bool{md.Name.String(): true}, refs); err != nil {
		return nil, err
	}
	return &Document{Primary: *primary, ReferencedTypeDescrs: sortedRefs(refs)}, nil
}

// collectReferences walks md's fields, resolving every nested-type
// reference against reg and recursing into it, accumulating one
// TypeDescription per distinct referenced type into out. path tracks the
// type names currently being expanded on this call stack so a cycle is
// reported instead of recursing forever.
func collectReferences(reg *rosidl.Registry, md rosidl.MessageDef, path map[string]bool, out map[string]TypeDescription) error {
	for _, f := range md.Fields {
		if !f.Type.IsNested() {
			continue
		}
		name := f.Type.Nested.String()
		if _, already := out[name]; already {
			continue
		}
		if path[name] {
			return &CircularTypeGraph{TypeName: name}
		}
		nested, ok := reg.Lookup(*f.Type.Nested)
		if !ok {
			return &UnresolvedReference{TypeName: name}
		}
		out[name] = *BuildMessage(nested)
		path[name] = true
		if err := collectReferences(reg, nested, path, out); err != nil {
			return err
		}
		delete(path, name)
	}
	return nil
}

func sortedRefs(refs map[string]TypeDescription) []TypeDescription {
	names := make([]string, 0, len(refs))
	for n := range refs {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]TypeDescription, len(names))
	for i, n := range names {
		out[i] = refs[n]
	}
	return out
}

func mergeRefs(dst map[string]TypeDescription, src map[string]TypeDescription) {
	for k, v := range src {
		dst[k] = v
	}
}
