/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package transport

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"
)

type msgType uint8

const (
	msgPut msgType = iota + 1
	msgQuery
	msgReply
)

var errShortFrame = errors.New("transport: short frame")

// frame is one peer-protocol message: a type tag, a key expression, a
// payload, an optional attachment, and (for queries/replies) the
// originating query id. Encoding is a flat sequence of length-prefixed
// fields, the same shape ingest/entry.go uses for its own header: fixed
// fields first, then length-prefixed variable fields.
type frame struct {
	msgType    msgType
	keyExpr    string
	payload    []byte
	attachment []byte
	queryID    uint64
}

func (f *frame) encode() []byte {
	size := 1 + 8 + 4 + len(f.keyExpr) + 4 + len(f.payload) + 4 + len(f.attachment)
	buf := make([]byte, 0, size+4)
	buf = append(buf, byte(f.msgType))
	var qid [8]byte
	binary.LittleEndian.PutUint64(qid[:], f.queryID)
	buf = append(buf, qid[:]...)
	buf = appendLP(buf, []byte(f.keyExpr))
	buf = appendLP(buf, f.payload)
	buf = appendLP(buf, f.attachment)
	return buf
}

func appendLP(buf, v []byte) []byte {
	var l [4]byte
	binary.LittleEndian.PutUint32(l[:], uint32(len(v)))
	buf = append(buf, l[:]...)
	return append(buf, v...)
}

func decodeFrame(buf []byte) (*frame, error) {
	if len(buf) < 1+8+4 {
		return nil, errShortFrame
	}
	f := &frame{msgType: msgType(buf[0])}
	f.queryID = binary.LittleEndian.Uint64(buf[1:9])
	pos := 9

	readLP := func() ([]byte, error) {
		if pos+4 > len(buf) {
			return nil, errShortFrame
		}
		n := binary.LittleEndian.Uint32(buf[pos : pos+4])
		pos += 4
		if pos+int(n) > len(buf) {
			return nil, errShortFrame
		}
		v := buf[pos : pos+int(n)]
		pos += int(n)
		return v, nil
	}

	ke, err := readLP()
	if err != nil {
		return nil, err
	}
	f.keyExpr = string(ke)
	if f.payload, err = readLP(); err != nil {
		return nil, err
	}
	if f.attachment, err = readLP(); err != nil {
		return nil, err
	}
	return f, nil
}

// peerConn wraps one TCP connection to a peer with a framed,
// length-prefixed read/write loop, mirroring the mutex-guarded
// single-connection shape of ingest.IngestConnection.
type peerConn struct {
	conn net.Conn
	r    *bufio.Reader
	wmu  sync.Mutex
}

func newPeerConn(conn net.Conn) *peerConn {
	return &peerConn{conn: conn, r: bufio.NewReader(conn)}
}

func (pc *peerConn) writeFrame(f *frame) error {
	pc.wmu.Lock()
	defer pc.wmu.Unlock()
	body := f.encode()
	var l [4]byte
	binary.LittleEndian.PutUint32(l[:], uint32(len(body)))
	if _, err := pc.conn.Write(l[:]); err != nil {
		return err
	}
	_, err := pc.conn.Write(body)
	return err
}

func (pc *peerConn) readFrame() (*frame, error) {
	var l [4]byte
	if _, err := io.ReadFull(pc.r, l[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(l[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(pc.r, body); err != nil {
		return nil, err
	}
	return decodeFrame(body)
}

func (pc *peerConn) Close() error {
	return pc.conn.Close()
}
