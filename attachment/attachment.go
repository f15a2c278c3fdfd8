/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package attachment encodes and decodes the 33-byte envelope rmw_zenoh
// carries alongside every put()/reply() payload: a sequence number, a
// source timestamp, and the publishing entity's GID (spec.md §3).
package attachment

import (
	"encoding/binary"
	"errors"
)

// Size is the fixed wire size of an encoded Attachment.
const Size = 33

const gidSize = 16

var (
	// ErrInvalidBufferSize is returned by Decode when the buffer is not
	// exactly Size bytes long.
	ErrInvalidBufferSize = errors.New("attachment: buffer must be exactly 33 bytes")

	// ErrInvalidGIDLength is returned by Decode when the GID-length byte
	// is not gidSize (16), the only length this library produces or
	// accepts from rmw_zenoh.
	ErrInvalidGIDLength = errors.New("attachment: GID length byte must be 16")
)

// Attachment is the decoded form of the 33-byte envelope.
type Attachment struct {
	SequenceNumber       int64
	SourceTimestampNanos int64
	GID                  [gidSize]byte
}

// Encode renders a into a freshly-allocated 33-byte buffer:
//
//	[0:8]   sequence number, int64 little-endian
//	[8:16]  source timestamp, int64 nanoseconds little-endian
//	[16]    GID length, always 16
//	[17:33] GID, 16 raw bytes
func Encode(a Attachment) []byte {
	buf := make([]byte, Size)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(a.SequenceNumber))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(a.SourceTimestampNanos))
	buf[16] = gidSize
	copy(buf[17:33], a.GID[:])
	return buf
}

// Decode parses a 33-byte buffer into an Attachment. It returns
// ErrInvalidBufferSize if buf is not exactly Size bytes, and
// ErrInvalidGIDLength if the GID-length byte is not 16.
func Decode(buf []byte) (Attachment, error) {
	var a Attachment
	if len(buf) != Size {
		return a, ErrInvalidBufferSize
	}
	if buf[16] != gidSize {
		return a, ErrInvalidGIDLength
	}
	a.SequenceNumber = int64(binary.LittleEndian.Uint64(buf[0:8]))
	a.SourceTimestampNanos = int64(binary.LittleEndian.Uint64(buf[8:16]))
	copy(a.GID[:], buf[17:33])
	return a, nil
}
