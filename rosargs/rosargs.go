/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package rosargs parses the ROS2 "--ros-args ... --" command-line
// convention: remaps, parameter overrides, a parameters file, a log
// level, and an enclave, the same way ingesters/args parses Gravwell's
// own ingester flags — a flat Args struct built by one Parse call, with
// validation errors returned rather than os.Exit'd.
package rosargs

import (
	"errors"
	"fmt"
	"strings"
)

// Remap is one "-r from:=to" rule.
type Remap struct {
	From string
	To   string
}

// ParamOverride is one "-p name:=value" rule; Value is kept as the raw
// string the command line carried — params.convertYAMLValue-style
// typing happens once it's merged with a node's declared Descriptor.
type ParamOverride struct {
	Name  string
	Value string
}

// Args is the parsed result of a ROS2 "--ros-args" block.
type Args struct {
	Remaps      []Remap
	Params      []ParamOverride
	ParamsFiles []string
	LogLevel    string
	Enclave     string
}

var (
	ErrNoRosArgs       = errors.New("rosargs: no --ros-args block present")
	ErrUnterminated    = errors.New("rosargs: --ros-args block missing a terminating --")
	ErrMalformedRemap  = errors.New("rosargs: remap must be of the form from:=to")
	ErrMalformedParam  = errors.New("rosargs: parameter override must be of the form name:=value")
	ErrMissingArgValue = errors.New("rosargs: flag is missing its value")
)

// Parse scans argv (typically os.Args[1:]) for a "--ros-args ... --"
// block and parses everything inside it. Arguments outside the block
// are ignored — they belong to the application's own flag parsing.
func Parse(argv []string) (Args, error) {
	start := -1
	for i, a := range argv {
		if a == "--ros-args" {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return Args{}, ErrNoRosArgs
	}

	end := -1
	for i := start; i < len(argv); i++ {
		if argv[i] == "--" {
			end = i
			break
		}
	}
	if end == -1 {
		return Args{}, ErrUnterminated
	}

	var a Args
	toks := argv[start:end]
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch tok {
		case "-r", "--remap":
			val, n, err := takeValue(toks, i)
			if err != nil {
				return Args{}, err
			}
			i += n
			from, to, ok := splitAssign(val)
			if !ok {
				return Args{}, ErrMalformedRemap
			}
			a.Remaps = append(a.Remaps, Remap{From: from, To: to})
		case "-p", "--param":
			val, n, err := takeValue(toks, i)
			if err != nil {
				return Args{}, err
			}
			i += n
			name, value, ok := splitAssign(val)
			if !ok {
				return Args{}, ErrMalformedParam
			}
			a.Params = append(a.Params, ParamOverride{Name: name, Value: value})
		case "--params-file":
			val, n, err := takeValue(toks, i)
			if err != nil {
				return Args{}, err
			}
			i += n
			a.ParamsFiles = append(a.ParamsFiles, val)
		case "--log-level":
			val, n, err := takeValue(toks, i)
			if err != nil {
				return Args{}, err
			}
			i += n
			a.LogLevel = val
		case "-e", "--enclave":
			val, n, err := takeValue(toks, i)
			if err != nil {
				return Args{}, err
			}
			i += n
			a.Enclave = val
		default:
			return Args{}, fmt.Errorf("rosargs: unrecognized flag %q", tok)
		}
	}
	return a, nil
}

// takeValue returns the value for a flag at toks[i]: always the next
// token, with n==1 tokens consumed. A value joined onto the flag itself
// is not recognised.
func takeValue(toks []string, i int) (string, int, error) {
	if i+1 >= len(toks) {
		return "", 0, ErrMissingArgValue
	}
	return toks[i+1], 1, nil
}

func splitAssign(s string) (lhs, rhs string, ok bool) {
	idx := strings.Index(s, ":=")
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+2:], true
}
