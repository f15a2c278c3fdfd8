/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package codegen renders a parsed rosidl.MessageDef into a standalone
// Go source file: a struct with one field per message field, CDR
// Encode/Decode methods built on the cdr package, and the type's own
// RIHS01 hash baked in as a constant (typedesc.Hash is computed once at
// generation time, not recomputed on every call). There is no
// third-party templating library anywhere in the retrieved corpus, and
// text/template is the standard idiomatic choice for exactly this job
// (it is what cmd/stringer and protoc-gen-go's own support packages
// use); see DESIGN.md.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/rclzenoh/rclzenoh/rosidl"
)

// Generated is one rendered Go source file.
type Generated struct {
	Package  string
	FileName string
	Source   string
}

// fieldPlan is the per-field view the template works from: a Go field
// name/type plus the CDR reader/writer method names to call.
type fieldPlan struct {
	GoName     string
	GoType     string
	CDRWrite   string
	CDRRead    string
	IsNested   bool
	NestedType string
	IsSeq      bool
	ElemWrite  string
	ElemRead   string
	ElemGoType string
	Cap        uint32
}

func goFieldName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

func primitiveGoType(p rosidl.Primitive) string {
	switch p {
	case rosidl.PrimBool:
		return "bool"
	case rosidl.PrimByte, rosidl.PrimUInt8, rosidl.PrimChar:
		return "uint8"
	case rosidl.PrimInt8:
		return "int8"
	case rosidl.PrimInt16:
		return "int16"
	case rosidl.PrimUInt16:
		return "uint16"
	case rosidl.PrimInt32:
		return "int32"
	case rosidl.PrimUInt32:
		return "uint32"
	case rosidl.PrimInt64:
		return "int64"
	case rosidl.PrimUInt64:
		return "uint64"
	case rosidl.PrimFloat32:
		return "float32"
	case rosidl.PrimFloat64:
		return "float64"
	case rosidl.PrimString, rosidl.PrimWString:
		return "string"
	default:
		return "uint8"
	}
}

func primitiveCDRMethod(p rosidl.Primitive) string {
	switch p {
	case rosidl.PrimBool:
		return "Bool"
	case rosidl.PrimByte, rosidl.PrimUInt8, rosidl.PrimChar:
		return "Uint8"
	case rosidl.PrimInt8:
		return "Int8"
	case rosidl.PrimInt16:
		return "Int16"
	case rosidl.PrimUInt16:
		return "Uint16"
	case rosidl.PrimInt32:
		return "Int32"
	case rosidl.PrimUInt32:
		return "Uint32"
	case rosidl.PrimInt64:
		return "Int64"
	case rosidl.PrimUInt64:
		return "Uint64"
	case rosidl.PrimFloat32:
		return "Float32"
	case rosidl.PrimFloat64:
		return "Float64"
	case rosidl.PrimString, rosidl.PrimWString:
		return "String"
	default:
		return "Uint8"
	}
}

func buildFieldPlan(f rosidl.Field) fieldPlan {
	ft := f.Type
	p := fieldPlan{GoName: goFieldName(f.Name)}

	if ft.IsNested() {
		p.IsNested = true
		p.NestedType = goTypeNameFor(*ft.Nested)
		switch ft.Array {
		case rosidl.ArrayNone:
			p.GoType = p.NestedType
		default:
			p.IsSeq = true
			p.GoType = "[]" + p.NestedType
			p.Cap = ft.ArrayCap
		}
		return p
	}

	elemGo := primitiveGoType(ft.Primitive)
	elemMethod := primitiveCDRMethod(ft.Primitive)
	switch ft.Array {
	case rosidl.ArrayNone:
		p.GoType = elemGo
		p.CDRWrite = elemMethod
		p.CDRRead = elemMethod
	default:
		p.IsSeq = true
		p.GoType = "[]" + elemGo
		p.ElemGoType = elemGo
		p.ElemWrite = elemMethod
		p.ElemRead = elemMethod
		p.Cap = ft.ArrayCap
	}
	return p
}

// goTypeNameFor renders a nested TypeName as the Go identifier the
// generated code for that type uses: PackageName, e.g.
// "std_msgs/msg/Header" -> "StdMsgsHeader".
func goTypeNameFor(tn rosidl.TypeName) string {
	return goFieldName(tn.Package) + goFieldName(tn.Name)
}

const messageTemplate = `// Code generated by rosidlgen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/rclzenoh/rclzenoh/cdr"
)

// {{.GoName}} is the generated Go type for {{.TypeNameString}}.
type {{.GoName}} struct {
{{- range .Fields}}
	{{.GoName}} {{.GoType}}
{{- end}}
}

// TypeName returns the interface's fully-qualified ROS2 type name.
func (*{{.GoName}}) TypeName() string { return "{{.TypeNameString}}" }

// TypeHash returns this type's RIHS01 type hash, computed once at
// generation time.
func (*{{.GoName}}) TypeHash() string { return "{{.TypeHash}}" }

// EncodeCDR serializes m using XCDR v1, little-endian.
func (m *{{.GoName}}) EncodeCDR() []byte {
	w := cdr.NewWriter()
	m.EncodeBody(w)
	return w.Bytes()
}

// EncodeBody writes m's fields into w without an encapsulation header,
// the form a parent message uses to inline m as a nested field.
func (m *{{.GoName}}) EncodeBody(w *cdr.Writer) {
{{- range .Fields}}
{{- if .IsSeq}}
	w.WriteSeqLen(len(m.{{.GoName}}))
	for i := range m.{{.GoName}} {
{{- if .IsNested}}
		m.{{.GoName}}[i].EncodeBody(w)
{{- else}}
		w.Write{{.ElemWrite}}(m.{{.GoName}}[i])
{{- end}}
	}
{{- else if .IsNested}}
	m.{{.GoName}}.EncodeBody(w)
{{- else}}
	w.Write{{.CDRWrite}}(m.{{.GoName}})
{{- end}}
{{- end}}
}

// Decode{{.GoName}} deserializes buf (XCDR v1, little-endian) into a
// new {{.GoName}}.
func Decode{{.GoName}}(buf []byte) (*{{.GoName}}, error) {
	r, err := cdr.NewReader(buf)
	if err != nil {
		return nil, err
	}
	m := &{{.GoName}}{}
	if err := m.DecodeBody(r); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeBody reads m's fields from r without expecting an encapsulation
// header, the form a parent message uses to decode m as a nested field.
func (m *{{.GoName}}) DecodeBody(r *cdr.Reader) error {
{{- range .Fields}}
{{- if .IsSeq}}
	n{{.GoName}}, err := r.ReadSeqLen()
	if err != nil {
		return err
	}
	m.{{.GoName}} = make({{.GoType}}, n{{.GoName}})
	for i := range m.{{.GoName}} {
{{- if .IsNested}}
		if err := m.{{.GoName}}[i].DecodeBody(r); err != nil {
			return err
		}
{{- else}}
		v, err := r.Read{{.ElemRead}}()
		if err != nil {
			return err
		}
		m.{{.GoName}}[i] = v
{{- end}}
	}
{{- else if .IsNested}}
	if err := m.{{.GoName}}.DecodeBody(r); err != nil {
		return err
	}
{{- else}}
	v{{.GoName}}, err := r.Read{{.CDRRead}}()
	if err != nil {
		return err
	}
	m.{{.GoName}} = v{{.GoName}}
{{- end}}
{{- end}}
	return nil
}
`

type templateFieldPlan struct {
	fieldPlan
}

type templateData struct {
	Package        string
	GoName         string
	TypeNameString string
	TypeHash       string
	Fields         []fieldPlan
}

// GenerateMessage renders md into a Go source file in goPackage, using
// typeHash as the already-computed RIHS01 hash (typedesc.Hash(typedesc.BuildDocument(...))).
func GenerateMessage(goPackage string, md rosidl.MessageDef, typeHash string) (Generated, error) {
	fields := make([]fieldPlan, 0, len(md.Fields))
	for _, f := range md.Fields {
		fields = append(fields, buildFieldPlan(f))
	}
	data := templateData{
		Package:        goPackage,
		GoName:         goFieldName(md.Name.Name),
		TypeNameString: md.Name.String(),
		TypeHash:       typeHash,
		Fields:         fields,
	}

	tmpl, err := template.New("message").Parse(messageTemplate)
	if err != nil {
		return Generated{}, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Generated{}, err
	}
	return Generated{
		Package:  goPackage,
		FileName: fmt.Sprintf("%s_gen.go", strings.ToLower(data.GoName)),
		Source:   buf.String(),
	}, nil
}
