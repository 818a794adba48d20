package stack

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cbor encoding options with canonical mode for deterministic output.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("stack: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// SnapshotSlot is the wire form of one stack slot.
type SnapshotSlot struct {
	Kind  uint8 `cbor:"k"`
	Value int64 `cbor:"v"`
}

// Snapshot is the serialized state of a suspended stack, carried to an
// out-of-process debugger for offline inspection.
type Snapshot struct {
	Capacity int            `cbor:"capacity"`
	Slots    []SnapshotSlot `cbor:"slots"`
}

// Capture records the occupied region of a suspended stack.
func Capture(s *Stack) *Snapshot {
	snap := &Snapshot{
		Capacity: s.Capacity(),
		Slots:    make([]SnapshotSlot, s.Top()+1),
	}
	for i := 0; i <= s.Top(); i++ {
		slot := s.slots[i]
		snap.Slots[i] = SnapshotSlot{Kind: uint8(slot.Kind), Value: slot.v}
	}
	return snap
}

// Stack rebuilds a Stack from the snapshot, validating slot kinds,
// frame indexes, and the frame chain a walk will follow. A bad
// snapshot is malformed external data, reported as an error rather
// than an abort.
func (snap *Snapshot) Stack() (*Stack, error) {
	if snap.Capacity < len(snap.Slots) {
		return nil, fmt.Errorf("snapshot capacity %d below %d occupied slots", snap.Capacity, len(snap.Slots))
	}
	s := New(snap.Capacity)
	for i, ss := range snap.Slots {
		if ss.Kind > uint8(KindFrameIndex) {
			return nil, fmt.Errorf("snapshot slot %d: unknown kind %d", i, ss.Kind)
		}
		kind := SlotKind(ss.Kind)
		if kind == KindFrameIndex && (ss.Value < 0 || ss.Value >= int64(len(snap.Slots))) {
			return nil, fmt.Errorf("snapshot slot %d: frame index %d out of range", i, ss.Value)
		}
		s.slots[i] = Slot{Kind: kind, v: ss.Value}
	}
	s.top = len(snap.Slots) - 1
	if err := checkWalkable(s); err != nil {
		return nil, err
	}
	return s, nil
}

// checkWalkable verifies the frame chain of a restored stack before a
// debugger walk touches it: the top slot must point at the two-slot
// sentinel frame, the previous-frame-pointer chain must strictly
// descend to a null terminator, and every slot read as a bytecode
// address along the way must hold one. The frame accessors treat
// violations as internal corruption and abort, so they must never be
// reachable from snapshot bytes.
func checkWalkable(s *Stack) error {
	if s.top < 0 {
		return fmt.Errorf("snapshot holds no slots")
	}
	top := s.slots[s.top]
	if top.Kind != KindFrameIndex {
		return fmt.Errorf("snapshot top slot holds %s, not a frame pointer", top.Kind)
	}
	fp := int(top.v)
	if s.top-fp != 2 {
		return fmt.Errorf("snapshot top frame has size %d, not the two-slot sentinel", s.top-fp)
	}
	for {
		link := s.slots[fp]
		if link.IsNull() {
			return nil
		}
		if link.Kind != KindFrameIndex {
			return fmt.Errorf("snapshot frame pointer slot %d holds %s", fp, link.Kind)
		}
		prev := int(link.v)
		if prev >= fp {
			return fmt.Errorf("snapshot frame chain does not descend: slot %d points to %d", fp, prev)
		}
		// slot fp-1 doubles as this frame's return address and the
		// older frame's bytecode pointer
		if bcp := s.slots[fp-1]; bcp.Kind != KindBytecode {
			return fmt.Errorf("snapshot slot %d holds %s, not a bytecode address", fp-1, bcp.Kind)
		}
		fp = prev
	}
}

// MarshalSnapshot serializes a snapshot to CBOR bytes.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(snap)
}

// UnmarshalSnapshot deserializes a snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("stack: unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
