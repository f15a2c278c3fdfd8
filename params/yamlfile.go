/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package params

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is a parsed ROS2 parameter YAML file: a map from node FQN (or
// the wildcard "/**") to a "ros__parameters" map.
type File struct {
	nodes map[string]map[string]interface{}
}

type rawNode struct {
	RosParameters map[string]interface{} `yaml:"ros__parameters"`
}

// ParseYAML parses the ROS2 parameter-file format (spec.md §6):
//
//	/**:
//	  ros__parameters:
//	    use_sim_time: false
//	my_node:
//	  ros__parameters:
//	    rate: 10.0
func ParseYAML(data []byte) (File, error) {
	var raw map[string]rawNode
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return File{}, err
	}
	f := File{nodes: map[string]map[string]interface{}{}}
	for node, rn := range raw {
		f.nodes[node] = rn.RosParameters
	}
	return f, nil
}

// ParametersFor resolves the effective parameter set for nodeFQN: the
// wildcard "/**" entry overlaid by the node-specific entry, converted
// to typed Values.
func (f File) ParametersFor(nodeFQN string) map[string]Value {
	out := map[string]Value{}
	merge := func(raw map[string]interface{}) {
		for k, v := range raw {
			val, err := convertYAMLValue(v)
			if err == nil {
				out[k] = val
			}
		}
	}
	if wild, ok := f.nodes["/**"]; ok {
		merge(wild)
	}
	if specific, ok := f.nodes[nodeFQN]; ok {
		merge(specific)
	}
	return out
}

// convertYAMLValue maps a decoded YAML scalar/sequence onto a
// params.Value, rejecting sequences whose elements don't share a single
// scalar type (ROS2 parameter arrays must be homogeneous).
func convertYAMLValue(v interface{}) (Value, error) {
	switch t := v.(type) {
	case bool:
		return Value{Kind: KindBool, BoolValue: t}, nil
	case int:
		return Value{Kind: KindInteger, IntegerValue: int64(t)}, nil
	case int64:
		return Value{Kind: KindInteger, IntegerValue: t}, nil
	case float64:
		return Value{Kind: KindDouble, DoubleValue: t}, nil
	case string:
		return Value{Kind: KindString, StringValue: t}, nil
	case []interface{}:
		return convertYAMLArray(t)
	default:
		return Value{}, fmt.Errorf("params: unsupported YAML value type %T", v)
	}
}

func convertYAMLArray(items []interface{}) (Value, error) {
	if len(items) == 0 {
		return Value{Kind: KindStringArray}, nil
	}
	switch items[0].(type) {
	case bool:
		out := make([]bool, len(items))
		for i, it := range items {
			b, ok := it.(bool)
			if !ok {
				return Value{}, fmt.Errorf("params: mixed-type array, expected bool at index %d", i)
			}
			out[i] = b
		}
		return Value{Kind: KindBoolArray, BoolArray: out}, nil
	case int:
		out := make([]int64, len(items))
		for i, it := range items {
			n, ok := it.(int)
			if !ok {
				return Value{}, fmt.Errorf("params: mixed-type array, expected integer at index %d", i)
			}
			out[i] = int64(n)
		}
		return Value{Kind: KindIntegerArray, IntegerArray: out}, nil
	case float64:
		out := make([]float64, len(items))
		for i, it := range items {
			f, ok := it.(float64)
			if !ok {
				return Value{}, fmt.Errorf("params: mixed-type array, expected double at index %d", i)
			}
			out[i] = f
		}
		return Value{Kind: KindDoubleArray, DoubleArray: out}, nil
	case string:
		out := make([]string, len(items))
		for i, it := range items {
			s, ok := it.(string)
			if !ok {
				return Value{}, fmt.Errorf("params: mixed-type array, expected string at index %d", i)
			}
			out[i] = s
		}
		return Value{Kind: KindStringArray, StringArray: out}, nil
	default:
		return Value{}, fmt.Errorf("params: unsupported array element type %T", items[0])
	}
}
