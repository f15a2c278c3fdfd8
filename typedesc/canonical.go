/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package typedesc builds the canonical TypeDescription document for a
// parsed interface and computes its RIHS01 type hash (spec.md §3, §4.2).
package typedesc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// canonicalJSON renders v (built from map[string]interface{},
// []interface{}, string, uint32, int, bool) with object keys sorted and
// a single space after every ':' and ',' — the exact rendering the RIHS01
// hash is taken over, so any other marshaler (including encoding/json's
// default compact form) would not reproduce the same hash.
func canonicalJSON(v interface{}) string {
	var b strings.Builder
	writeCanonical(&b, v)
	return b.String()
}

func writeCanonical(b *strings.Builder, v interface{}) {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			writeCanonical(b, k)
			b.WriteString(": ")
			writeCanonical(b, t[k])
		}
		b.WriteByte('}')
	case []interface{}:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteString(", ")
			}
			writeCanonical(b, e)
		}
		b.WriteByte(']')
	case string:
		bs, _ := json.Marshal(t)
		b.Write(bs)
	case uint32:
		fmt.Fprintf(b, "%d", t)
	case int:
		fmt.Fprintf(b, "%d", t)
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case nil:
		b.WriteString("null")
	default:
		panic(fmt.Sprintf("typedesc: unsupported canonical value %T", v))
	}
}
