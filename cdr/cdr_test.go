/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package cdr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteBool(true)
	w.WriteInt8(-5)
	w.WriteUint16(1000)
	w.WriteInt32(-70000)
	w.WriteUint64(1 << 40)
	w.WriteFloat64(3.14159)

	r, err := NewReader(w.Bytes())
	require.NoError(t, err)

	b, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, b)

	i8, err := r.ReadInt8()
	require.NoError(t, err)
	require.EqualValues(t, -5, i8)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	require.EqualValues(t, 1000, u16)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	require.EqualValues(t, -70000, i32)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	require.EqualValues(t, 1<<40, u64)

	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	require.InDelta(t, 3.14159, f64, 1e-9)
}

func TestStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteString("hello zenoh")
	r, err := NewReader(w.Bytes())
	require.NoError(t, err)
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hello zenoh", s)
}

func TestSequenceRoundTrip(t *testing.T) {
	vals := []int32{1, 2, 3, 4, 5}
	w := NewWriter()
	w.WriteSeqLen(len(vals))
	for _, v := range vals {
		w.WriteInt32(v)
	}
	r, err := NewReader(w.Bytes())
	require.NoError(t, err)
	n, err := r.ReadSeqLen()
	require.NoError(t, err)
	require.Equal(t, len(vals), n)
	out := make([]int32, n)
	for i := range out {
		out[i], err = r.ReadInt32()
		require.NoError(t, err)
	}
	require.Equal(t, vals, out)
}

func TestAlignmentInsertsPadding(t *testing.T) {
	w := NewWriter()
	w.WriteBool(true) // 1 byte, payload offset now 1
	w.WriteInt64(42)  // must align to 8 -> padding inserted
	require.Equal(t, 4+8+8, len(w.Bytes()))
}

func TestCapacityChecks(t *testing.T) {
	require.NoError(t, CheckSeqCap(3, 0))
	require.NoError(t, CheckSeqCap(3, 5))
	require.ErrorIs(t, CheckSeqCap(6, 5), ErrSeqTooLong)
	require.ErrorIs(t, CheckStringCap(6, 5), ErrStringTooLong)
}

func TestReaderRejectsShortBuffer(t *testing.T) {
	_, err := NewReader([]byte{0, 1})
	require.ErrorIs(t, err, ErrBufferTooShort)
}
