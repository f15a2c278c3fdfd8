/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package typedesc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rclzenoh/rclzenoh/rosidl"
)

func sampleRegistry(t *testing.T) *rosidl.Registry {
	t.Helper()
	reg := rosidl.NewRegistry()

	header, err := rosidl.ParseMessage("Header.msg", "std_msgs", "Header", []byte(
		"builtin_interfaces/Time stamp\nstring frame_id\n"))
	require.NoError(t, err)
	reg.AddNative(header)

	timeMsg, err := rosidl.ParseMessage("Time.msg", "builtin_interfaces", "Time", []byte(
		"int32 sec\nuint32 nanosec\n"))
	require.NoError(t, err)
	reg.AddNative(timeMsg)

	point, err := rosidl.ParseMessage("Point.msg", "geometry_msgs", "Point", []byte(
		"float64 x\nfloat64 y\nfloat64 z\n"))
	require.NoError(t, err)
	reg.AddNative(point)

	pose, err := rosidl.ParseMessage("Pose.msg", "geometry_msgs", "Pose", []byte(
		"Header header\ngeometry_msgs/Point position\n"))
	require.NoError(t, err)
	reg.AddNative(pose)

	return reg
}

func TestHashDeterministicAndDistinct(t *testing.T) {
	reg := sampleRegistry(t)
	pose, ok := reg.Lookup(rosidl.TypeName{Package: "geometry_msgs", Category: "msg", Name: "Pose"})
	require.True(t, ok)

	doc1, err := BuildDocument(reg, pose)
	require.NoError(t, err)
	doc2, err := BuildDocument(reg, pose)
	require.NoError(t, err)
	require.Equal(t, Hash(doc1), Hash(doc2))
	require.True(t, strings.HasPrefix(Hash(doc1), "RIHS01_"))

	point, _ := reg.Lookup(rosidl.TypeName{Package: "geometry_msgs", Category: "msg", Name: "Point"})
	doc3, err := BuildDocument(reg, point)
	require.NoError(t, err)
	require.NotEqual(t, Hash(doc1), Hash(doc3))
}

func TestBuildDocumentReferencedTypesSortedAndDeduped(t *testing.T) {
	reg := sampleRegistry(t)
	pose, _ := reg.Lookup(rosidl.TypeName{Package: "geometry_msgs", Category: "msg", Name: "Pose"})
	doc, err := BuildDocument(reg, pose)
	require.NoError(t, err)

	names := make([]string, len(doc.ReferencedTypeDescrs))
	for i, r := range doc.ReferencedTypeDescrs {
		names[i] = r.TypeName
	}
	require.ElementsMatch(t, []string{
		"std_msgs/msg/Header",
		"geometry_msgs/msg/Point",
		"builtin_interfaces/msg/Time",
	}, names)
	sorted := append([]string(nil), names...)
	for i := 1; i < len(sorted); i++ {
		require.LessOrEqual(t, sorted[i-1], sorted[i])
	}
}

func TestBuildDocumentUnresolvedReference(t *testing.T) {
	reg := rosidl.NewRegistry()
	md, err := rosidl.ParseMessage("Bad.msg", "test_msgs", "Bad", []byte("other_pkg/Missing thing\n"))
	require.NoError(t, err)
	_, err = BuildDocument(reg, md)
	require.Error(t, err)
	var ur *UnresolvedReference
	require.ErrorAs(t, err, &ur)
}

func TestBuildServiceReferenceCount(t *testing.T) {
	reg := sampleRegistry(t)
	sd, err := rosidl.ParseService("AddTwoInts.srv", "example_interfaces", "AddTwoInts", []byte(
		"int64 a\nint64 b\n---\nint64 sum\n"))
	require.NoError(t, err)

	doc, err := BuildService(reg, sd)
	require.NoError(t, err)
	require.Equal(t, "example_interfaces/srv/AddTwoInts", doc.Primary.TypeName)

	names := map[string]bool{}
	for _, r := range doc.ReferencedTypeDescrs {
		names[r.TypeName] = true
	}
	require.True(t, names["example_interfaces/srv/AddTwoInts_Request"])
	require.True(t, names["example_interfaces/srv/AddTwoInts_Response"])
	require.True(t, names["example_interfaces/srv/AddTwoInts_Event"])
	require.True(t, names[serviceEventInfoTypeName])
}

func TestBuildActionReferenceCount(t *testing.T) {
	reg := sampleRegistry(t)
	ad, err := rosidl.ParseAction("Fibonacci.action", "example_interfaces", "Fibonacci", []byte(
		"int32 order\n---\nint32[] sequence\n---\nint32 partial_sequence\n"))
	require.NoError(t, err)

	doc, err := BuildAction(reg, ad)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, r := range doc.ReferencedTypeDescrs {
		names[r.TypeName] = true
	}
	want := []string{
		"example_interfaces/action/Fibonacci_Goal",
		"example_interfaces/action/Fibonacci_Result",
		"example_interfaces/action/Fibonacci_Feedback",
		"example_interfaces/action/Fibonacci_SendGoal_Request",
		"example_interfaces/action/Fibonacci_SendGoal_Response",
		"example_interfaces/action/Fibonacci_GetResult_Request",
		"example_interfaces/action/Fibonacci_GetResult_Response",
		"example_interfaces/action/Fibonacci_FeedbackMessage",
		timeTypeName,
	}
	for _, w := range want {
		require.True(t, names[w], "missing referenced type %s", w)
	}
}
