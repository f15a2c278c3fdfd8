/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rosargs

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rclzenoh/rclzenoh/params"
)

func TestParseFullBlock(t *testing.T) {
	argv := []string{
		"my_node",
		"--ros-args",
		"-r", "chatter:=talk",
		"-p", "rate:=10.0",
		"--params-file", "/tmp/p.yaml",
		"--log-level", "debug",
		"-e", "/my_enclave",
		"--",
		"positional",
	}
	a, err := Parse(argv)
	require.NoError(t, err)
	require.Equal(t, []Remap{{From: "chatter", To: "talk"}}, a.Remaps)
	require.Equal(t, []ParamOverride{{Name: "rate", Value: "10.0"}}, a.Params)
	require.Equal(t, []string{"/tmp/p.yaml"}, a.ParamsFiles)
	require.Equal(t, "debug", a.LogLevel)
	require.Equal(t, "/my_enclave", a.Enclave)
}

func TestParseNoRosArgsBlock(t *testing.T) {
	_, err := Parse([]string{"my_node"})
	require.ErrorIs(t, err, ErrNoRosArgs)
}

func TestParseUnterminatedBlock(t *testing.T) {
	_, err := Parse([]string{"--ros-args", "-r", "a:=b"})
	require.ErrorIs(t, err, ErrUnterminated)
}

func TestParseMalformedRemap(t *testing.T) {
	_, err := Parse([]string{"--ros-args", "-r", "no-assign-here", "--"})
	require.ErrorIs(t, err, ErrMalformedRemap)
}

func TestWatchParamsFileFiresOnWrite(t *testing.T) {
	path := t.TempDir() + "/p.yaml"
	require.NoError(t, os.WriteFile(path, []byte("my_node:\n  ros__parameters:\n    rate: 1.0\n"), 0o644))

	changed := make(chan params.File, 1)
	stop, err := WatchParamsFile(path, func(f params.File) { changed <- f })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("my_node:\n  ros__parameters:\n    rate: 2.0\n"), 0o644))

	select {
	case f := <-changed:
		p := f.ParametersFor("my_node")
		require.Equal(t, 2.0, p["rate"].DoubleValue)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fsnotify event")
	}
}
