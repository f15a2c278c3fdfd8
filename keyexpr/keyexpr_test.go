/*************************************************************************
 * Copyright 2018 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package keyexpr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rclzenoh/rclzenoh/qos"
)

func TestDataKeyExprInjective(t *testing.T) {
	a := DataKeyExpr(0, "/chatter", "std_msgs/msg/String", "RIHS01_aaaa", qos.Default())
	b := DataKeyExpr(0, "/chatter", "std_msgs/msg/String", "RIHS01_bbbb", qos.Default())
	require.NotEqual(t, a, b)
}

func TestDataKeyExprEscapesWildcards(t *testing.T) {
	ke := DataKeyExpr(0, "/weird*topic", "std_msgs/msg/String", "RIHS01_aaaa", qos.Default())
	require.NotContains(t, strings.Split(ke, "/")[1], "*")
}

func TestLivelinessKeyExprRoundTripsSegments(t *testing.T) {
	ke := LivelinessKeyExpr(0, "z1", "n1", "e1", EntityPublisher, "/chatter", "std_msgs/msg/String")
	parts := strings.Split(ke, "/")
	require.Equal(t, "@ros2_lv", parts[0])
	require.Equal(t, string(EntityPublisher), parts[5])
	require.Len(t, parts, 8)
	require.Equal(t, "%2Fchatter", parts[6])
	require.Equal(t, "std_msgs%2Fmsg%2FString", parts[7])
}

func TestLivelinessQueryExprMatchesKind(t *testing.T) {
	sel := LivelinessQueryExpr(0, EntityNode)
	require.Contains(t, sel, string(EntityNode))
	require.True(t, strings.HasSuffix(sel, "**"))
}
