/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMatchesWildcards(t *testing.T) {
	require.True(t, matches("a/*/c", "a/b/c"))
	require.False(t, matches("a/*/c", "a/b/b/c"))
	require.True(t, matches("a/**", "a/b/c/d"))
	require.True(t, matches("a/**", "a"))
	require.False(t, matches("a/b", "a/b/c"))
}

func TestPubSubSameSession(t *testing.T) {
	s := New("s1", nil)
	defer s.Close()

	received := make(chan Sample, 1)
	sub, err := s.DeclareSubscriber("chatter/**", func(smp Sample) { received <- smp })
	require.NoError(t, err)
	defer sub.Undeclare()

	pub, err := s.DeclarePublisher("chatter/topic")
	require.NoError(t, err)
	require.NoError(t, pub.Put([]byte("hello"), nil))

	select {
	case smp := <-received:
		require.Equal(t, "hello", string(smp.Payload))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sample")
	}
}

func TestPubSubAcrossTCPPeers(t *testing.T) {
	listener := New("listener", nil)
	defer listener.Close()
	require.NoError(t, listener.Listen("127.0.0.1:17447"))

	dialer := New("dialer", nil)
	defer dialer.Close()

	received := make(chan Sample, 1)
	sub, err := listener.DeclareSubscriber("chatter/**", func(smp Sample) { received <- smp })
	require.NoError(t, err)
	defer sub.Undeclare()

	require.NoError(t, dialer.Connect("127.0.0.1:17447"))
	time.Sleep(50 * time.Millisecond) // let the accept loop adopt the peer

	pub, err := dialer.DeclarePublisher("chatter/topic")
	require.NoError(t, err)
	require.NoError(t, pub.Put([]byte("over the wire"), []byte("att")))

	select {
	case smp := <-received:
		require.Equal(t, "over the wire", string(smp.Payload))
		require.Equal(t, "att", string(smp.Attachment))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sample over TCP")
	}
}

func TestQueryReply(t *testing.T) {
	listener := New("listener", nil)
	defer listener.Close()
	require.NoError(t, listener.Listen("127.0.0.1:17448"))

	dialer := New("dialer", nil)
	defer dialer.Close()

	qable, err := listener.DeclareQueryable("params/*", func(q *Query) {
		q.Reply(Sample{KeyExpr: q.KeyExpr, Payload: []byte("42")})
	})
	require.NoError(t, err)
	defer qable.Undeclare()

	require.NoError(t, dialer.Connect("127.0.0.1:17448"))
	time.Sleep(50 * time.Millisecond)

	replies, err := dialer.Get("params/x", nil, 2*time.Second)
	require.NoError(t, err)

	select {
	case smp := <-replies:
		require.Equal(t, "42", string(smp.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply")
	}
}
