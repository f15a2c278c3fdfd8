/*************************************************************************
 * Copyright 2018 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package qos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := Default()
	require.EqualValues(t, 10, p.EffectiveDepth())
	require.True(t, p.IsReliable())
	require.False(t, p.CachesSamples())
}

func TestSensorDataProfile(t *testing.T) {
	p := SensorData()
	require.EqualValues(t, 5, p.EffectiveDepth())
	require.False(t, p.IsReliable())
}

func TestNormalizeFoldsManualByTopic(t *testing.T) {
	p := Default()
	p.Liveliness = LivelinessManualByTopic
	folded := p.Normalize()
	require.True(t, folded)
	require.Equal(t, LivelinessAutomatic, p.Liveliness)
}

func TestNormalizeFillsZeroDepth(t *testing.T) {
	p := Policy{History: HistoryKeepLast}
	p.Normalize()
	require.EqualValues(t, 42, p.Depth)
}

func TestEffectiveDepthKeepAll(t *testing.T) {
	p := Policy{History: HistoryKeepAll}
	require.Greater(t, p.EffectiveDepth(), uint32(1000))
}

func TestTransientLocalCachesAndQueriesHistory(t *testing.T) {
	p := Default()
	p.Durability = DurabilityTransientLocal
	require.True(t, p.CachesSamples())
	require.True(t, p.SubscriberQueriesHistory())
}

func TestCompact4Encoding(t *testing.T) {
	p := Default()
	require.Equal(t, "H10R1D1L1", p.Compact4())

	p2 := SensorData()
	require.Equal(t, "H5R0D1L1", p2.Compact4())
}
