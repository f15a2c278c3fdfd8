/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rosidl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIDLBasic(t *testing.T) {
	src := []byte(`
module std_msgs {
  module msg {
    // plain struct, no annotations
    struct Int64 {
      int64 data;
    };
  };
};
`)
	types, err := ParseIDL("Int64.idl", src)
	require.NoError(t, err)
	md, ok := types[TypeName{Package: "std_msgs", Category: "msg", Name: "Int64"}]
	require.True(t, ok)
	require.Len(t, md.Fields, 1)
	require.Equal(t, "data", md.Fields[0].Name)
	require.Equal(t, PrimInt64, md.Fields[0].Type.Primitive)
}

func TestParseIDLSequenceAndBoundedString(t *testing.T) {
	src := []byte(`
module example_interfaces {
  module msg {
    struct Fields {
      sequence<int32> unbounded_seq;
      sequence<int32, 4> bounded_seq;
      string<16> label;
      @default (value=7)
      int32 with_default;
    };
  };
};
`)
	types, err := ParseIDL("Fields.idl", src)
	require.NoError(t, err)
	md := types[TypeName{Package: "example_interfaces", Category: "msg", Name: "Fields"}]
	require.Len(t, md.Fields, 4)
	require.Equal(t, ArrayUnbounded, md.Fields[0].Type.Array)
	require.Equal(t, ArrayBounded, md.Fields[1].Type.Array)
	require.EqualValues(t, 4, md.Fields[1].Type.ArrayCap)
	require.EqualValues(t, 16, md.Fields[2].Type.StringCap)
	require.True(t, md.Fields[3].HasDefault)
	require.Equal(t, "7", md.Fields[3].Default)
}

func TestParseIDLTypedefAndNested(t *testing.T) {
	src := []byte(`
module geometry_msgs {
  module msg {
    struct Point {
      float64 x;
      float64 y;
      float64 z;
    };
  };
};
module example_interfaces {
  module msg {
    struct Pose {
      geometry_msgs::msg::Point position;
    };
  };
};
`)
	types, err := ParseIDL("Pose.idl", src)
	require.NoError(t, err)
	md := types[TypeName{Package: "example_interfaces", Category: "msg", Name: "Pose"}]
	require.Len(t, md.Fields, 1)
	require.True(t, md.Fields[0].Type.IsNested())
	require.Equal(t, "geometry_msgs/msg/Point", md.Fields[0].Type.Nested.String())
}

func TestRegistryNativePriority(t *testing.T) {
	reg := NewRegistry()
	tn := TypeName{Package: "std_msgs", Category: "msg", Name: "Int64"}
	reg.AddIDL(MessageDef{Name: tn, Fields: []Field{{Name: "data", Type: FieldType{Primitive: PrimInt64}}}})
	reg.AddNative(MessageDef{Name: tn, Fields: []Field{
		{Name: "data", Type: FieldType{Primitive: PrimInt64}},
		{Name: "extra", Type: FieldType{Primitive: PrimBool}},
	}})
	md, ok := reg.Lookup(tn)
	require.True(t, ok)
	require.Len(t, md.Fields, 2, "native definition must win over the IDL one")
}
