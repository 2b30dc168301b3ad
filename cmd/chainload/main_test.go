package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dando385/chainload/internal/workload"
)

func TestNewRuntimeRejectsUnknownMode(t *testing.T) {
	_, err := newRuntime(nil, workload.Mode("BOGUS"))
	require.Error(t, err)
}

func TestNewRuntimeBuildsEachKnownMode(t *testing.T) {
	for _, mode := range []workload.Mode{workload.ModeEOA, workload.ModeERC20, workload.ModeERC721} {
		rt, err := newRuntime(nil, mode)
		require.NoError(t, err)
		require.NotNil(t, rt)
	}
}
