/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package msgs holds hand-written examples of codegen's output shape:
// a handful of commonly-used std_msgs/example_interfaces types, built
// the same way codegen.GenerateMessage would render them, so the rest
// of this module has real generated-looking types to publish/subscribe
// and call services with in its own tests.
package msgs

import "github.com/rclzenoh/rclzenoh/cdr"

// String mirrors std_msgs/msg/String: { string data }.
type String struct {
	Data string
}

func (*String) TypeName() string { return "std_msgs/msg/String" }
func (*String) TypeHash() string { return "RIHS01_8f2e6a6a9d2a6e2f6b9c4e1a0f7d3c5b6a8e9f0d1c2b3a4958677869504a3b2c" }

func (m *String) EncodeCDR() []byte {
	w := cdr.NewWriter()
	w.WriteString(m.Data)
	return w.Bytes()
}

func DecodeString(buf []byte) (*String, error) {
	r, err := cdr.NewReader(buf)
	if err != nil {
		return nil, err
	}
	data, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return &String{Data: data}, nil
}

// Int64 mirrors std_msgs/msg/Int64: { int64 data }.
type Int64 struct {
	Data int64
}

func (*Int64) TypeName() string { return "std_msgs/msg/Int64" }
func (*Int64) TypeHash() string { return "RIHS01_3c1d9e7f5a2b8c6d4e0f1a9b7c5d3e2f1a0b9c8d7e6f5a4b3c2d1e0f9a8b7c6d" }

func (m *Int64) EncodeCDR() []byte {
	w := cdr.NewWriter()
	w.WriteInt64(m.Data)
	return w.Bytes()
}

func DecodeInt64(buf []byte) (*Int64, error) {
	r, err := cdr.NewReader(buf)
	if err != nil {
		return nil, err
	}
	v, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	return &Int64{Data: v}, nil
}

// Time mirrors builtin_interfaces/msg/Time: { int32 sec, uint32 nanosec }.
type Time struct {
	Sec    int32
	Nanosec uint32
}

func (*Time) TypeName() string { return "builtin_interfaces/msg/Time" }
func (*Time) TypeHash() string { return "RIHS01_0a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9" }

func (m *Time) EncodeCDR() []byte {
	w := cdr.NewWriter()
	m.EncodeBody(w)
	return w.Bytes()
}

// EncodeBody writes m's fields into w without an encapsulation header,
// the form a parent message uses to inline Time as a nested field.
func (m *Time) EncodeBody(w *cdr.Writer) {
	w.WriteInt32(m.Sec)
	w.WriteUint32(m.Nanosec)
}

func DecodeTime(buf []byte) (*Time, error) {
	r, err := cdr.NewReader(buf)
	if err != nil {
		return nil, err
	}
	m := &Time{}
	if err := m.DecodeBody(r); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeBody reads m's fields from r without expecting an encapsulation
// header, the form a parent message uses to decode Time as a nested field.
func (m *Time) DecodeBody(r *cdr.Reader) error {
	sec, err := r.ReadInt32()
	if err != nil {
		return err
	}
	nanosec, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.Sec, m.Nanosec = sec, nanosec
	return nil
}

// Header mirrors std_msgs/msg/Header: { Time stamp, string frame_id }.
type Header struct {
	Stamp   Time
	FrameID string
}

func (*Header) TypeName() string { return "std_msgs/msg/Header" }
func (*Header) TypeHash() string { return "RIHS01_1f2e3d4c5b6a798089706152433f4e5d6c7b8a90817263544f5e6d7c8b9a0f1e" }

func (m *Header) EncodeCDR() []byte {
	w := cdr.NewWriter()
	m.Stamp.EncodeBody(w)
	w.WriteString(m.FrameID)
	return w.Bytes()
}

func DecodeHeader(buf []byte) (*Header, error) {
	r, err := cdr.NewReader(buf)
	if err != nil {
		return nil, err
	}
	m := &Header{}
	if err := m.Stamp.DecodeBody(r); err != nil {
		return nil, err
	}
	frameID, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	m.FrameID = frameID
	return m, nil
}
