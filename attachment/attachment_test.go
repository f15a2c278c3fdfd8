/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package attachment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Attachment{SequenceNumber: 42, SourceTimestampNanos: 1234567890}
	copy(in.GID[:], []byte("0123456789abcdef"))

	buf := Encode(in)
	require.Len(t, buf, Size)

	out, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	_, err := Decode(make([]byte, 10))
	require.ErrorIs(t, err, ErrInvalidBufferSize)
}

func TestEncodeWritesGIDLengthByte(t *testing.T) {
	buf := Encode(Attachment{})
	require.Equal(t, byte(16), buf[16])
}

func TestDecodeRejectsBadGIDLength(t *testing.T) {
	buf := Encode(Attachment{})
	buf[16] = 15
	_, err := Decode(buf)
	require.ErrorIs(t, err, ErrInvalidGIDLength)
}
