/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package msgs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rclzenoh/rclzenoh/qos"
	"github.com/rclzenoh/rclzenoh/rclzenoh"
	"github.com/rclzenoh/rclzenoh/zenohcfg"
)

func TestStringRoundTrip(t *testing.T) {
	s := &String{Data: "hello zenoh"}
	decoded, err := DecodeString(s.EncodeCDR())
	require.NoError(t, err)
	require.Equal(t, s.Data, decoded.Data)
}

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{Stamp: Time{Sec: 42, Nanosec: 7}, FrameID: "base_link"}
	decoded, err := DecodeHeader(h.EncodeCDR())
	require.NoError(t, err)
	require.Equal(t, *h, *decoded)
}

func TestAddTwoIntsOverRealService(t *testing.T) {
	serverCtx, err := rclzenoh.Open(0, zenohcfg.Config{Listen: []string{"tcp/127.0.0.1:17455"}}, nil)
	require.NoError(t, err)
	defer serverCtx.Close()
	clientCtx, err := rclzenoh.Open(0, zenohcfg.Config{Connect: []string{"tcp/127.0.0.1:17455"}}, nil)
	require.NoError(t, err)
	defer clientCtx.Close()
	time.Sleep(50 * time.Millisecond)

	serverNode, err := serverCtx.CreateNode("adder", "/")
	require.NoError(t, err)
	clientNode, err := clientCtx.CreateNode("caller", "/")
	require.NoError(t, err)

	server, err := serverNode.CreateServer("/add_two_ints", "example_interfaces/srv/AddTwoInts", AddTwoIntsTypeHash, qos.Default(),
		func(reqBytes []byte) []byte {
			req, err := DecodeAddTwoIntsRequest(reqBytes)
			if err != nil {
				return nil
			}
			resp := &AddTwoIntsResponse{Sum: req.A + req.B}
			return resp.EncodeCDR()
		})
	require.NoError(t, err)
	defer server.Destroy()

	client, err := clientNode.CreateClient("/add_two_ints", "example_interfaces/srv/AddTwoInts", AddTwoIntsTypeHash, qos.Default())
	require.NoError(t, err)
	defer client.Destroy()

	req := &AddTwoIntsRequest{A: 3, B: 4}
	respBytes, err := client.Call(req.EncodeCDR(), time.Second)
	require.NoError(t, err)
	resp, err := DecodeAddTwoIntsResponse(respBytes)
	require.NoError(t, err)
	require.EqualValues(t, 7, resp.Sum)
}

func TestStringOverRealTopic(t *testing.T) {
	talkerCtx, err := rclzenoh.Open(0, zenohcfg.Config{Listen: []string{"tcp/127.0.0.1:17456"}}, nil)
	require.NoError(t, err)
	defer talkerCtx.Close()
	listenerCtx, err := rclzenoh.Open(0, zenohcfg.Config{Connect: []string{"tcp/127.0.0.1:17456"}}, nil)
	require.NoError(t, err)
	defer listenerCtx.Close()
	time.Sleep(50 * time.Millisecond)

	talkerNode, err := talkerCtx.CreateNode("talker", "/")
	require.NoError(t, err)
	listenerNode, err := listenerCtx.CreateNode("listener", "/")
	require.NoError(t, err)

	received := make(chan *String, 1)
	sub, err := listenerNode.CreateSubscriber("/chatter", (&String{}).TypeName(), (&String{}).TypeHash(), qos.Default(), func(m rclzenoh.Message) {
		s, err := DecodeString(m.Payload)
		if err == nil {
			received <- s
		}
	})
	require.NoError(t, err)
	defer sub.Destroy()

	pub, err := talkerNode.CreatePublisher("/chatter", (&String{}).TypeName(), (&String{}).TypeHash(), qos.Default())
	require.NoError(t, err)
	defer pub.Destroy()

	require.NoError(t, pub.Publish((&String{Data: "hello"}).EncodeCDR()))

	select {
	case s := <-received:
		require.Equal(t, "hello", s.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}
