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
)

func TestDomainIDFromEnvDefaultsToZero(t *testing.T) {
	t.Setenv(envDomainID, "")
	require.EqualValues(t, 0, DomainIDFromEnv())
}

func TestDomainIDFromEnvParsesValue(t *testing.T) {
	t.Setenv(envDomainID, "7")
	require.EqualValues(t, 7, DomainIDFromEnv())
}

func TestDomainIDFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv(envDomainID, "not-a-number")
	require.EqualValues(t, 0, DomainIDFromEnv())
}
