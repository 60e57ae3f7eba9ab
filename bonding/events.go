package bonding

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-bonding-ledger/inter"
)

// EventKind discriminates notification records in storage.
type EventKind uint8

const (
	KindSlashApplied EventKind = iota + 1
	KindBondAdded
	KindUnbondRequested
	KindUnbonded
)

var errUnknownEventKind = errors.New("unknown event kind")

// Event is a notification record appended by a successful operation.
// Records are observational: replaying them is not required to rebuild
// ledger state, which lives in its own tables.
type Event interface {
	// Kind returns the storage discriminator of the record.
	Kind() EventKind
}

// SlashApplied records a successful slash: the pool and its new
// cumulative point total.
type SlashApplied struct {
	Pool     inter.PoolID
	NewTotal *big.Int
	Time     inter.Timestamp
}

// BondAdded records a newly activated bond together with the pool's
// slash points at activation, which fixes the bond's baseline for
// proportional withdrawal.
type BondAdded struct {
	Bond           inter.BondID
	Owner          common.Address
	Amount         *big.Int
	Pool           inter.PoolID
	Nonce          uint64
	SlashedAtStart *big.Int
	Time           inter.Timestamp
}

// UnbondRequested records the start of the exit timelock.
type UnbondRequested struct {
	Bond       inter.BondID
	Owner      common.Address
	WillUnlock inter.Timestamp
	Time       inter.Timestamp
}

// Unbonded records a completed withdrawal: the owner's payout and the
// portion burned.
type Unbonded struct {
	Bond   inter.BondID
	Owner  common.Address
	Payout *big.Int
	Burned *big.Int
	Time   inter.Timestamp
}

func (e *SlashApplied) Kind() EventKind    { return KindSlashApplied }
func (e *BondAdded) Kind() EventKind       { return KindBondAdded }
func (e *UnbondRequested) Kind() EventKind { return KindUnbondRequested }
func (e *Unbonded) Kind() EventKind        { return KindUnbonded }

// eventEnvelope is the stored form: a kind tag plus the RLP payload of the
// concrete record.
type eventEnvelope struct {
	Kind    uint8
	Payload []byte
}

// EncodeEvent serializes an event record for the notification log.
func EncodeEvent(ev Event) ([]byte, error) {
	payload, err := rlp.EncodeToBytes(ev)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(&eventEnvelope{
		Kind:    uint8(ev.Kind()),
		Payload: payload,
	})
}

// DecodeEvent deserializes a notification log entry.
func DecodeEvent(raw []byte) (Event, error) {
	envelope := eventEnvelope{}
	if err := rlp.DecodeBytes(raw, &envelope); err != nil {
		return nil, err
	}

	var ev Event
	switch EventKind(envelope.Kind) {
	case KindSlashApplied:
		ev = &SlashApplied{}
	case KindBondAdded:
		ev = &BondAdded{}
	case KindUnbondRequested:
		ev = &UnbondRequested{}
	case KindUnbonded:
		ev = &Unbonded{}
	default:
		return nil, errUnknownEventKind
	}
	if err := rlp.DecodeBytes(envelope.Payload, ev); err != nil {
		return nil, err
	}
	return ev, nil
}
