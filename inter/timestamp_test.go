package inter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampConversions(t *testing.T) {
	moment := time.Unix(1608600000, 123456789)
	ts := FromTime(moment)

	require.Equal(t, Timestamp(1608600000123456789), ts)
	require.True(t, ts.Time().Equal(moment))
	require.Equal(t, int64(1608600000), ts.Unix())
}

func TestTimestampBytes(t *testing.T) {
	ts := Timestamp(0x0102030405060708)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, ts.Bytes())
}

func TestTimestampZeroIsSentinel(t *testing.T) {
	// zero is used by the ledger to mean "no unbonding requested"
	require.Equal(t, Timestamp(0), FromTime(time.Unix(0, 0)))
}
