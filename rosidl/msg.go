/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rosidl

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

// ParseMessage parses a .msg file body into a MessageDef. pkg is the
// owning package (the directory two levels above the .msg file); name is
// the type's bare name (the file's basename without extension).
func ParseMessage(path, pkg, name string, data []byte) (MessageDef, error) {
	if !ValidPackageName(pkg) {
		return MessageDef{}, badInterface(path, 0, 0, InvalidName, "invalid package name %q", pkg)
	}
	if !ValidTypeName(name) {
		return MessageDef{}, badInterface(path, 0, 0, InvalidName, "invalid message type name %q", name)
	}
	md := MessageDef{Name: TypeName{Package: pkg, Category: "msg", Name: name}}
	if err := parseMessageLines(path, splitLines(data), &md); err != nil {
		return MessageDef{}, err
	}
	return md, nil
}

// ParseService parses a .srv file, splitting request/response on a single
// line containing exactly "---".
func ParseService(path, pkg, name string, data []byte) (ServiceDef, error) {
	if !ValidPackageName(pkg) {
		return ServiceDef{}, badInterface(path, 0, 0, InvalidName, "invalid package name %q", pkg)
	}
	if !ValidTypeName(name) {
		return ServiceDef{}, badInterface(path, 0, 0, InvalidName, "invalid service type name %q", name)
	}
	sections, err := splitSections(path, data, 1)
	if err != nil {
		return ServiceDef{}, err
	}
	sd := ServiceDef{Name: TypeName{Package: pkg, Category: "srv", Name: name}}
	sd.Request.Name = TypeName{Package: pkg, Category: "srv", Name: name + "_Request"}
	sd.Response.Name = TypeName{Package: pkg, Category: "srv", Name: name + "_Response"}
	if err := parseMessageLines(path, sections[0], &sd.Request); err != nil {
		return ServiceDef{}, err
	}
	if err := parseMessageLines(path, sections[1], &sd.Response); err != nil {
		return ServiceDef{}, err
	}
	return sd, nil
}

// ParseAction parses a .action file, splitting goal/result/feedback on
// two "---" lines.
func ParseAction(path, pkg, name string, data []byte) (ActionDef, error) {
	if !ValidPackageName(pkg) {
		return ActionDef{}, badInterface(path, 0, 0, InvalidName, "invalid package name %q", pkg)
	}
	if !ValidTypeName(name) {
		return ActionDef{}, badInterface(path, 0, 0, InvalidName, "invalid action type name %q", name)
	}
	sections, err := splitSections(path, data, 2)
	if err != nil {
		return ActionDef{}, err
	}
	ad := ActionDef{Name: TypeName{Package: pkg, Category: "action", Name: name}}
	ad.Goal.Name = TypeName{Package: pkg, Category: "action", Name: name + "_Goal"}
	ad.Result.Name = TypeName{Package: pkg, Category: "action", Name: name + "_Result"}
	ad.Feedback.Name = TypeName{Package: pkg, Category: "action", Name: name + "_Feedback"}
	if err := parseMessageLines(path, sections[0], &ad.Goal); err != nil {
		return ActionDef{}, err
	}
	if err := parseMessageLines(path, sections[1], &ad.Result); err != nil {
		return ActionDef{}, err
	}
	if err := parseMessageLines(path, sections[2], &ad.Feedback); err != nil {
		return ActionDef{}, err
	}
	return ad, nil
}

type numberedLine struct {
	text string
	line int
}

func splitLines(data []byte) []numberedLine {
	var out []numberedLine
	sc := bufio.NewScanner(bytes.NewReader(data))
	n := 0
	for sc.Scan() {
		n++
		out = append(out, numberedLine{text: sc.Text(), line: n})
	}
	return out
}

// splitSections splits a numbered-line stream on lines that are exactly
// "---" (whitespace-insensitive), requiring exactly wantSeparators of them.
func splitSections(path string, data []byte, wantSeparators int) ([][]numberedLine, error) {
	lines := splitLines(data)
	sections := make([][]numberedLine, 1, wantSeparators+1)
	for _, nl := range lines {
		if strings.TrimSpace(nl.text) == "---" {
			sections = append(sections, nil)
			continue
		}
		sections[len(sections)-1] = append(sections[len(sections)-1], nl)
	}
	if len(sections) != wantSeparators+1 {
		return nil, badInterface(path, 0, 0, InvalidSeparator,
			"expected %d '---' separator(s), found %d", wantSeparators, len(sections)-1)
	}
	return sections, nil
}

var constantRe = regexp.MustCompile(`^([A-Za-z0-9_<>=\[\]/]+)\s+([A-Za-z0-9_]+)\s*=\s*(.+)$`)
var fieldRe = regexp.MustCompile(`^([A-Za-z0-9_<>=\[\]/]+)\s+([A-Za-z0-9_]+)(?:\s+(.+))?$`)

func parseMessageLines(path string, lines []numberedLine, md *MessageDef) error {
	seen := make(map[string]bool)
	for _, nl := range lines {
		text := stripComment(nl.text)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if m := constantRe.FindStringSubmatch(text); m != nil && !strings.Contains(m[1], "[") {
			// constants never carry an array type
			typTok, nameTok, valTok := m[1], m[2], strings.TrimSpace(m[3])
			if !ValidConstantName(nameTok) {
				return badInterface(path, nl.line, 1, InvalidName, "invalid constant name %q", nameTok)
			}
			ft, err := parseTypeToken(path, nl.line, typTok)
			if err != nil {
				return err
			}
			if ft.Array != ArrayNone || ft.IsNested() {
				return badInterface(path, nl.line, 1, InvalidType, "constant %q must have a primitive type", nameTok)
			}
			if err := validateLiteral(path, nl.line, ft.Primitive, valTok); err != nil {
				return err
			}
			if seen[nameTok] {
				return badInterface(path, nl.line, 1, DuplicateField, "duplicate constant %q", nameTok)
			}
			seen[nameTok] = true
			md.Constants = append(md.Constants, Constant{Name: nameTok, Type: ft.Primitive, Value: valTok, Line: nl.line, Col: 1})
			continue
		}
		m := fieldRe.FindStringSubmatch(text)
		if m == nil {
			return badInterface(path, nl.line, 1, InvalidType, "could not parse field declaration %q", text)
		}
		typTok, nameTok, defTok := m[1], m[2], strings.TrimSpace(m[3])
		if !ValidFieldName(nameTok) {
			return badInterface(path, nl.line, 1, InvalidName, "invalid field name %q", nameTok)
		}
		ft, err := parseTypeToken(path, nl.line, typTok)
		if err != nil {
			return err
		}
		if seen[nameTok] {
			return badInterface(path, nl.line, 1, DuplicateField, "duplicate field %q", nameTok)
		}
		seen[nameTok] = true
		f := Field{Name: nameTok, Type: ft, Line: nl.line, Col: 1}
		if defTok != "" {
			if ft.IsNested() {
				return badInterface(path, nl.line, 1, InvalidValue, "nested field %q may not carry a default", nameTok)
			}
			f.Default = defTok
			f.HasDefault = true
		}
		md.Fields = append(md.Fields, f)
	}
	return nil
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

var arraySuffixRe = regexp.MustCompile(`^(.*)\[(<=)?(\d*)\]$`)

// parseTypeToken parses a type token such as "int32", "string<=8",
// "geometry_msgs/Point", "int32[3]", "string<=8[<=4]".
func parseTypeToken(path string, line int, tok string) (FieldType, error) {
	var ft FieldType
	base := tok
	if m := arraySuffixRe.FindStringSubmatch(tok); m != nil {
		base = m[1]
		if m[2] == "<=" {
			ft.Array = ArrayBounded
			n, err := strconv.ParseUint(m[3], 10, 32)
			if err != nil {
				return ft, badInterface(path, line, 1, InvalidType, "invalid bounded-array capacity in %q", tok)
			}
			ft.ArrayCap = uint32(n)
		} else if m[3] == "" {
			ft.Array = ArrayUnbounded
		} else {
			ft.Array = ArrayFixed
			n, err := strconv.ParseUint(m[3], 10, 32)
			if err != nil {
				return ft, badInterface(path, line, 1, InvalidType, "invalid fixed-array capacity in %q", tok)
			}
			ft.ArrayCap = uint32(n)
		}
	}
	if strings.HasPrefix(base, "string<=") || strings.HasPrefix(base, "wstring<=") {
		capStr := base[strings.IndexByte(base, '=')+1:]
		n, err := strconv.ParseUint(capStr, 10, 32)
		if err != nil {
			return ft, badInterface(path, line, 1, InvalidType, "invalid bounded-string capacity in %q", base)
		}
		ft.StringCap = uint32(n)
		if strings.HasPrefix(base, "wstring") {
			ft.Primitive = PrimWString
		} else {
			ft.Primitive = PrimString
		}
		return ft, nil
	}
	if p, ok := namesToPrimitive[base]; ok {
		ft.Primitive = p
		return ft, nil
	}
	// nested type reference: "pkg/Type" or the implicit "Header".
	if base == "Header" {
		tn := TypeName{Package: "std_msgs", Category: "msg", Name: "Header"}
		ft.Nested = &tn
		return ft, nil
	}
	if i := strings.IndexByte(base, '/'); i > 0 && i < len(base)-1 {
		pkg, name := base[:i], base[i+1:]
		if !ValidPackageName(pkg) || !ValidTypeName(name) {
			return ft, badInterface(path, line, 1, InvalidType, "invalid nested type reference %q", base)
		}
		tn := TypeName{Package: pkg, Category: "msg", Name: name}
		ft.Nested = &tn
		return ft, nil
	}
	return ft, badInterface(path, line, 1, InvalidType, "unknown type %q", base)
}

func validateLiteral(path string, line int, p Primitive, val string) error {
	if val == "" {
		return badInterface(path, line, 1, InvalidValue, "empty constant value")
	}
	switch p {
	case PrimBool:
		if val != "true" && val != "false" && val != "0" && val != "1" {
			return badInterface(path, line, 1, InvalidValue, "invalid bool literal %q", val)
		}
	case PrimFloat32, PrimFloat64:
		if !looksNumeric(val, true) {
			return badInterface(path, line, 1, InvalidValue, "invalid float literal %q", val)
		}
	case PrimString, PrimWString:
		// any literal is acceptable as a string constant
	default:
		if !looksNumeric(val, false) {
			return badInterface(path, line, 1, InvalidValue, "invalid integer literal %q", val)
		}
	}
	return nil
}

func looksNumeric(s string, allowDot bool) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	if i >= len(s) {
		return false
	}
	seenDigit := false
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c):
			seenDigit = true
		case allowDot && (c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+'):
			// permissive: accept exponent/decimal notation
		default:
			return false
		}
	}
	return seenDigit
}
