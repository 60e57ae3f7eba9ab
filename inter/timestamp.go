// Package inter defines the ledger's core value types: timestamps, pool
// and bond identifiers, and the bond intent tuple together with its
// canonical serialization. These types are shared by every other package
// and carry no behavior beyond identity, conversion and encoding.
package inter

import (
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
)

// Timestamp is a point in time, in nanoseconds since the Unix epoch.
// The ledger never reads the wall clock itself; every operation receives
// its Timestamp from the caller, which is expected to be non-decreasing.
type Timestamp uint64

// FromTime converts a time.Time into a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Time converts the Timestamp into a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t)/1e9, int64(t)%1e9)
}

// Unix returns the Timestamp truncated to whole seconds.
func (t Timestamp) Unix() int64 {
	return int64(t) / 1e9
}

// Bytes returns the big-endian binary form of the Timestamp.
func (t Timestamp) Bytes() []byte {
	return bigendian.Uint64ToBytes(uint64(t))
}

func (t Timestamp) String() string {
	return t.Time().UTC().Format(time.RFC3339Nano)
}
