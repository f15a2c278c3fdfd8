/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package params

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeclareExplicitWinsOverFile(t *testing.T) {
	s := NewStore()
	doc, err := ParseYAML([]byte("my_node:\n  ros__parameters:\n    rate: 5.0\n"))
	require.NoError(t, err)
	s.LoadFile(doc, "my_node")

	v, err := s.Declare("rate", Descriptor{Kind: KindDouble}, Value{Kind: KindDouble, DoubleValue: 42}, true)
	require.NoError(t, err)
	require.Equal(t, 42.0, v.DoubleValue)
}

func TestDeclareFallsBackToFileThenDescriptorDefault(t *testing.T) {
	s := NewStore()
	doc, err := ParseYAML([]byte("my_node:\n  ros__parameters:\n    rate: 5.0\n"))
	require.NoError(t, err)
	s.LoadFile(doc, "my_node")

	v, err := s.Declare("rate", Descriptor{Kind: KindDouble}, Value{}, false)
	require.NoError(t, err)
	require.Equal(t, 5.0, v.DoubleValue)

	v2, err := s.Declare("undeclared_elsewhere", Descriptor{Kind: KindInteger}, Value{}, false)
	require.NoError(t, err)
	require.EqualValues(t, 0, v2.IntegerValue)
}

func TestDeclareTwiceFails(t *testing.T) {
	s := NewStore()
	_, err := s.Declare("x", Descriptor{Kind: KindBool}, Value{}, false)
	require.NoError(t, err)
	_, err = s.Declare("x", Descriptor{Kind: KindBool}, Value{}, false)
	require.Error(t, err)
}

func TestSetEnforcesReadOnlyAndKind(t *testing.T) {
	s := NewStore()
	_, err := s.Declare("ro", Descriptor{Kind: KindString, ReadOnly: true}, Value{Kind: KindString, StringValue: "a"}, true)
	require.NoError(t, err)
	err = s.Set("ro", Value{Kind: KindString, StringValue: "b"})
	require.Error(t, err)

	_, err = s.Declare("rw", Descriptor{Kind: KindInteger}, Value{}, false)
	require.NoError(t, err)
	err = s.Set("rw", Value{Kind: KindString, StringValue: "nope"})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestYAMLWildcardAndRejectsMixedArray(t *testing.T) {
	doc, err := ParseYAML([]byte(`
/**:
  ros__parameters:
    use_sim_time: false
my_node:
  ros__parameters:
    rate: 10.0
    names: ["a", "b", "c"]
`))
	require.NoError(t, err)
	p := doc.ParametersFor("my_node")
	require.Equal(t, KindBool, p["use_sim_time"].Kind)
	require.Equal(t, KindDouble, p["rate"].Kind)
	require.Equal(t, []string{"a", "b", "c"}, p["names"].StringArray)

	_, err = convertYAMLArray([]interface{}{"a", 1})
	require.Error(t, err)
}
