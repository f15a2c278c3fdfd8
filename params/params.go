/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package params implements ROS2 parameters: the typed Parameter value,
// the YAML "ros__parameters" file format (spec.md §6), and the
// per-node parameter Store. There is no ParameterServer: parameters are
// not exposed as ROS2 services, and Set emits no change notifications.
package params

import (
	"errors"
	"fmt"
	"sync"
)

// Kind is the closed set of parameter value types ROS2 supports.
type Kind int

const (
	KindNotSet Kind = iota
	KindBool
	KindInteger
	KindDouble
	KindString
	KindByteArray
	KindBoolArray
	KindIntegerArray
	KindDoubleArray
	KindStringArray
)

// Value is a single typed parameter value.
type Value struct {
	Kind          Kind
	BoolValue     bool
	IntegerValue  int64
	DoubleValue   float64
	StringValue   string
	ByteArray     []byte
	BoolArray     []bool
	IntegerArray  []int64
	DoubleArray   []float64
	StringArray   []string
}

// ParameterError is a structured error for declare/set/get failures.
type ParameterError struct {
	Name string
	Msg  string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("params: %s: %s", e.Name, e.Msg)
}

// Unwrap maps Msg back onto the sentinel it was built from, so errors.Is
// matches ErrAlreadyDeclared, ErrNotDeclared, and ErrTypeMismatch.
func (e *ParameterError) Unwrap() error {
	for _, s := range []error{ErrAlreadyDeclared, ErrNotDeclared, ErrTypeMismatch} {
		if e.Msg == s.Error() {
			return s
		}
	}
	return nil
}

var (
	ErrAlreadyDeclared = errors.New("params: parameter already declared")
	ErrNotDeclared     = errors.New("params: parameter not declared")
	ErrTypeMismatch    = errors.New("params: value kind does not match the declared type")
)

type entry struct {
	value      Value
	descriptor Descriptor
}

// Descriptor carries a parameter's declared constraints. Kind and
// ReadOnly are enforced; Description is informational. It holds no
// range or step, so Set performs no range check.
type Descriptor struct {
	Kind        Kind
	ReadOnly    bool
	Description string
}

// Store holds every parameter declared by one node. Declaration follows
// a 3-tier priority (spec.md §4.11, from oxidros's params_helpers.rs):
// an explicit Declare() value wins, then a matching entry from a loaded
// parameters file, then a zero Value of the descriptor's Kind
// (Descriptor holds no default of its own).
type Store struct {
	mu       sync.RWMutex
	values   map[string]entry
	fromFile map[string]Value
}

func NewStore() *Store {
	return &Store{values: map[string]entry{}, fromFile: map[string]Value{}}
}

// LoadFile seeds the fromFile overlay consulted by Declare, without
// declaring any parameters itself — call Declare for each parameter a
// node actually exposes.
func (s *Store) LoadFile(doc File, nodeFQN string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range doc.ParametersFor(nodeFQN) {
		s.fromFile[name] = v
	}
}

// Declare registers name with descriptor d. The effective initial value
// is, in priority order: explicitValue (if ok is true), the matching
// fromFile overlay entry, then d's own zero Value.
func (s *Store) Declare(name string, d Descriptor, explicitValue Value, explicitOK bool) (Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[name]; exists {
		return Value{}, &ParameterError{Name: name, Msg: ErrAlreadyDeclared.Error()}
	}
	v := Value{Kind: d.Kind}
	if explicitOK {
		v = explicitValue
	} else if fv, ok := s.fromFile[name]; ok {
		v = fv
	}
	if v.Kind != d.Kind && v.Kind != KindNotSet {
		return Value{}, &ParameterError{Name: name, Msg: ErrTypeMismatch.Error()}
	}
	s.values[name] = entry{value: v, descriptor: d}
	return v, nil
}

func (s *Store) Get(name string) (Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.values[name]
	if !ok {
		return Value{}, &ParameterError{Name: name, Msg: ErrNotDeclared.Error()}
	}
	return e.value, nil
}

// Set updates an already-declared parameter's value, enforcing the
// declared Kind and ReadOnly constraint.
func (s *Store) Set(name string, v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.values[name]
	if !ok {
		return &ParameterError{Name: name, Msg: ErrNotDeclared.Error()}
	}
	if e.descriptor.ReadOnly {
		return &ParameterError{Name: name, Msg: "parameter is read-only"}
	}
	if v.Kind != e.descriptor.Kind {
		return &ParameterError{Name: name, Msg: ErrTypeMismatch.Error()}
	}
	e.value = v
	s.values[name] = e
	return nil
}

// List returns every declared parameter name and its current value.
func (s *Store) List() map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Value, len(s.values))
	for k, e := range s.values {
		out[k] = e.value
	}
	return out
}
