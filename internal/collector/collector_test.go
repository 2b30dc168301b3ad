package collector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbsDiff(t *testing.T) {
	require.Equal(t, uint64(3), absDiff(10, 7))
	require.Equal(t, uint64(3), absDiff(7, 10))
	require.Equal(t, uint64(0), absDiff(5, 5))
}

func TestParseHexUint(t *testing.T) {
	v, err := parseHexUint("0x2a")
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)

	_, err = parseHexUint("not-hex")
	require.Error(t, err)
}

func TestHashFromHexRejectsShortStrings(t *testing.T) {
	_, err := hashFromHex("0x1234")
	require.Error(t, err)
}

func TestHashFromHexAcceptsFullLengthHash(t *testing.T) {
	full := "0x" + fillHex(64)
	h, err := hashFromHex(full)
	require.NoError(t, err)
	require.Equal(t, full, h.Hex())
}

func fillHex(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func TestUniqueBlockNumbersDedupsAndSkipsZero(t *testing.T) {
	records := []TxRecord{
		{Hash: "a", BlockNumber: 10},
		{Hash: "b", BlockNumber: 0},
		{Hash: "c", BlockNumber: 10},
		{Hash: "d", BlockNumber: 8},
	}
	require.Equal(t, []uint64{8, 10}, uniqueBlockNumbers(records))
}

func TestAvgUtilizationEmptyReport(t *testing.T) {
	r := &Report{}
	require.Equal(t, 0.0, r.AvgUtilization())
}

func TestAvgUtilizationAveragesBlocks(t *testing.T) {
	r := &Report{Blocks: []BlockStat{
		{GasUtilization: 50},
		{GasUtilization: 100},
	}}
	require.Equal(t, 75.0, r.AvgUtilization())
}
