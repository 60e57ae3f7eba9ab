package bonding

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-bonding-ledger/inter"
)

// Storage key prefixes. Each logical table gets a one-byte namespace in the
// shared key-value store.
var (
	slashTable = []byte("r") // pool id -> cumulative slash points
	bondTable  = []byte("b") // bond id -> BondState
	logTable   = []byte("l") // big-endian sequence -> event envelope
)

// BondState is the persisted state of an active bond. The intent fields
// (amount, pool, nonce) are not stored: they are bound into the bond
// identifier, and every operation re-presents them.
type BondState struct {
	// SlashedAtStart is the pool's cumulative slash points at activation.
	// It is the baseline of the proportional withdrawal formula and is
	// strictly below the maximum while the bond is active.
	SlashedAtStart *big.Int

	// WillUnlock is the unlock timestamp set by an unbonding request, or
	// zero while no request was made. Withdrawal requires the current time
	// to be strictly past it.
	WillUnlock inter.Timestamp
}

// Store persists ledger state in a key-value database behind prefixed
// tables. Reads hit the database directly; writes are staged through an
// ethdb.Batch so each operation commits atomically.
type Store struct {
	db ethdb.KeyValueStore
}

// NewStore wraps an existing key-value database.
func NewStore(db ethdb.KeyValueStore) *Store {
	return &Store{db: db}
}

// NewMemStore creates a Store backed by an in-memory database, for tests
// and the fake network.
func NewMemStore() *Store {
	return NewStore(memorydb.New())
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewBatch starts a write batch. Batched writes become visible only after
// Batch.Write, which is the commit point of every operation.
func (s *Store) NewBatch() ethdb.Batch {
	return s.db.NewBatch()
}

func slashKey(pool inter.PoolID) []byte {
	return append(append(make([]byte, 0, 33), slashTable...), pool.Bytes()...)
}

func bondKey(id inter.BondID) []byte {
	return append(append(make([]byte, 0, 33), bondTable...), id.Bytes()...)
}

func logKey(seq uint64) []byte {
	return append(append(make([]byte, 0, 9), logTable...), bigendian.Uint64ToBytes(seq)...)
}

// GetSlashPoints returns the pool's cumulative slash points. Pools with no
// record have zero points.
func (s *Store) GetSlashPoints(pool inter.PoolID) (*big.Int, error) {
	ok, err := s.db.Has(slashKey(pool))
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(big.Int), nil
	}
	raw, err := s.db.Get(slashKey(pool))
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

// SetSlashPoints stages the pool's new cumulative total.
func (s *Store) SetSlashPoints(w ethdb.KeyValueWriter, pool inter.PoolID, points *big.Int) error {
	return w.Put(slashKey(pool), points.Bytes())
}

// GetBond returns the bond's persisted state, or ok=false if the bond is
// not active.
func (s *Store) GetBond(id inter.BondID) (state BondState, ok bool, err error) {
	ok, err = s.db.Has(bondKey(id))
	if err != nil || !ok {
		return BondState{}, false, err
	}
	raw, err := s.db.Get(bondKey(id))
	if err != nil {
		return BondState{}, false, err
	}
	if err := rlp.DecodeBytes(raw, &state); err != nil {
		return BondState{}, false, err
	}
	return state, true, nil
}

// SetBond stages the bond's state.
func (s *Store) SetBond(w ethdb.KeyValueWriter, id inter.BondID, state BondState) error {
	raw, err := rlp.EncodeToBytes(&state)
	if err != nil {
		return err
	}
	return w.Put(bondKey(id), raw)
}

// DeleteBond stages removal of the bond record.
func (s *Store) DeleteBond(w ethdb.KeyValueWriter, id inter.BondID) error {
	return w.Delete(bondKey(id))
}

// AppendEvent stages a notification record under the given sequence number.
func (s *Store) AppendEvent(w ethdb.KeyValueWriter, seq uint64, ev Event) error {
	raw, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	return w.Put(logKey(seq), raw)
}

// Events returns all notification records in append order.
func (s *Store) Events() ([]Event, error) {
	it := s.db.NewIterator(logTable, nil)
	defer it.Release()

	var events []Event
	for it.Next() {
		ev, err := DecodeEvent(it.Value())
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, it.Error()
}

// NextEventSeq scans the notification log and returns the sequence number
// the next record should use. Called once at startup; afterwards the
// ledger tracks the counter in memory.
func (s *Store) NextEventSeq() (uint64, error) {
	it := s.db.NewIterator(logTable, nil)
	defer it.Release()

	next := uint64(0)
	for it.Next() {
		key := it.Key()
		next = bigendian.BytesToUint64(key[len(logTable):]) + 1
	}
	return next, it.Error()
}
