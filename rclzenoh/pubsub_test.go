/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rclzenoh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rclzenoh/rclzenoh/qos"
	"github.com/rclzenoh/rclzenoh/zenohcfg"
)

func TestBlockCongestionControlGetsALimiter(t *testing.T) {
	policy := qos.Default()
	policy.CongestionControl = qos.CongestionControlBlock
	require.NotNil(t, newPublisherLimiter(policy))

	require.Nil(t, newPublisherLimiter(qos.Default()))
}

func TestBlockModePublishDoesNotErrorUnderBurst(t *testing.T) {
	ctx, err := Open(0, zenohcfg.Config{Listen: []string{"tcp/127.0.0.1:17454"}}, nil)
	require.NoError(t, err)
	defer ctx.Close()

	node, err := ctx.CreateNode("blocker", "/")
	require.NoError(t, err)

	policy := qos.Default()
	policy.Depth = 2
	policy.CongestionControl = qos.CongestionControlBlock
	pub, err := node.CreatePublisher("/burst", "std_msgs/msg/String", "RIHS01_x", policy)
	require.NoError(t, err)
	defer pub.Destroy()

	for i := 0; i < 5; i++ {
		require.NoError(t, pub.Publish([]byte("x")))
	}
}
