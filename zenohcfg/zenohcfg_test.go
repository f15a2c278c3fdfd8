/*************************************************************************
 * Copyright 2023 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package zenohcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadBytesFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte("[Zenoh]\n"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadBytesOverridesFields(t *testing.T) {
	cfg, err := LoadBytes([]byte("[Zenoh]\nMode=client\nConnect=tcp/10.0.0.1:7447\nScoutingDelayMs=50\n"))
	require.NoError(t, err)
	require.Equal(t, ModeClient, cfg.Mode)
	require.Equal(t, []string{"tcp/10.0.0.1:7447"}, cfg.Connect)
	require.Equal(t, 50, cfg.ScoutingDelayMs)
}

func TestLoadBytesRejectsOversizedConfig(t *testing.T) {
	big := make([]byte, maxConfigSize+1)
	_, err := LoadBytes(big)
	require.ErrorIs(t, err, ErrConfigFileTooLarge)
}

func TestLoadFromEnvUnsetYieldsDefault(t *testing.T) {
	t.Setenv(envConfigURI, "")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFromEnvFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zenoh.conf")
	require.NoError(t, os.WriteFile(path, []byte("[Zenoh]\nMode=client\n"), 0o644))
	t.Setenv(envConfigURI, "file://"+path)
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, ModeClient, cfg.Mode)
}

func TestLoadFromEnvRejectsUnsupportedScheme(t *testing.T) {
	t.Setenv(envConfigURI, "https://example.com/zenoh.conf")
	_, err := LoadFromEnv()
	require.ErrorIs(t, err, ErrNoFileScheme)
}
