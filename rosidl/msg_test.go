/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rosidl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMessageBasic(t *testing.T) {
	src := []byte(`# a comment
int32 a
string name
float64[3] xyz
int32[<=8] bounded
string<=16 label
int32 MAX_SPEED=100
`)
	md, err := ParseMessage("Int64.msg", "test_msgs", "Sample", src)
	require.NoError(t, err)
	require.Equal(t, "test_msgs/msg/Sample", md.Name.String())
	require.Len(t, md.Fields, 5)
	require.Equal(t, "a", md.Fields[0].Name)
	require.Equal(t, PrimInt32, md.Fields[0].Type.Primitive)
	require.Equal(t, ArrayFixed, md.Fields[2].Type.Array)
	require.EqualValues(t, 3, md.Fields[2].Type.ArrayCap)
	require.Equal(t, ArrayBounded, md.Fields[3].Type.Array)
	require.EqualValues(t, 8, md.Fields[3].Type.ArrayCap)
	require.EqualValues(t, 16, md.Fields[4].Type.StringCap)
	require.Len(t, md.Constants, 1)
	require.Equal(t, "MAX_SPEED", md.Constants[0].Name)
}

func TestParseMessageNestedAndHeader(t *testing.T) {
	src := []byte(`Header header
geometry_msgs/Point position
`)
	md, err := ParseMessage("Pose.msg", "geometry_msgs", "Pose", src)
	require.NoError(t, err)
	require.True(t, md.Fields[0].Type.IsNested())
	require.Equal(t, "std_msgs/msg/Header", md.Fields[0].Type.Nested.String())
	require.Equal(t, "geometry_msgs/msg/Point", md.Fields[1].Type.Nested.String())
}

func TestParseMessageInvalidName(t *testing.T) {
	_, err := ParseMessage("Bad.msg", "test_msgs", "Sample", []byte("int32 BadName\n"))
	require.Error(t, err)
	var bi *BadInterface
	require.True(t, errors.As(err, &bi))
	require.Equal(t, InvalidName, bi.Kind)
}

func TestParseMessageDuplicateField(t *testing.T) {
	_, err := ParseMessage("Bad.msg", "test_msgs", "Sample", []byte("int32 a\nint32 a\n"))
	require.Error(t, err)
	var bi *BadInterface
	require.True(t, errors.As(err, &bi))
	require.Equal(t, DuplicateField, bi.Kind)
}

func TestParseMessageBadType(t *testing.T) {
	_, err := ParseMessage("Bad.msg", "test_msgs", "Sample", []byte("notatype a\n"))
	require.Error(t, err)
	var bi *BadInterface
	require.True(t, errors.As(err, &bi))
	require.Equal(t, InvalidType, bi.Kind)
}

func TestParseServiceSeparator(t *testing.T) {
	sd, err := ParseService("AddTwoInts.srv", "example_interfaces", "AddTwoInts", []byte("int64 a\nint64 b\n---\nint64 sum\n"))
	require.NoError(t, err)
	require.Len(t, sd.Request.Fields, 2)
	require.Len(t, sd.Response.Fields, 1)

	_, err = ParseService("Bad.srv", "example_interfaces", "AddTwoInts", []byte("int64 a\nint64 sum\n"))
	require.Error(t, err)
	var bi *BadInterface
	require.True(t, errors.As(err, &bi))
	require.Equal(t, InvalidSeparator, bi.Kind)
}

func TestParseActionSections(t *testing.T) {
	src := []byte("int32 order\n---\nint32[] sequence\n---\nint32 partial_sequence\n")
	ad, err := ParseAction("Fibonacci.action", "example_interfaces", "Fibonacci", src)
	require.NoError(t, err)
	require.Len(t, ad.Goal.Fields, 1)
	require.Len(t, ad.Result.Fields, 1)
	require.Len(t, ad.Feedback.Fields, 1)
	require.Equal(t, ArrayUnbounded, ad.Result.Fields[0].Type.Array)
}

func TestValidNameRules(t *testing.T) {
	require.True(t, ValidPackageName("std_msgs"))
	require.False(t, ValidPackageName("StdMsgs"))
	require.True(t, ValidTypeName("Int64"))
	require.False(t, ValidTypeName("int64"))
	require.True(t, ValidFieldName("data"))
	require.False(t, ValidFieldName("Data"))
	require.True(t, ValidConstantName("MAX_SPEED"))
	require.False(t, ValidConstantName("maxSpeed"))
}
