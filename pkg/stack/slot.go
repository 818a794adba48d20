// Package stack implements the call-stack frame model of the VM: typed
// word slots, the stack they live on, and the Frame cursor the
// interpreter, garbage collector, and debugger use to walk live
// activation records.
package stack

import "fmt"

type SlotKind uint8

const (
	// KindNull marks an unoccupied slot and the end-of-chain sentinel in
	// a previous-frame-pointer position.
	KindNull SlotKind = iota
	// KindValue holds a plain value or heap reference.
	KindValue
	// KindBytecode holds an address into the bytecode stream.
	KindBytecode
	// KindFrameIndex holds the slot index of an older frame pointer.
	KindFrameIndex
)

// String returns a human-readable name for the slot kind.
func (k SlotKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindValue:
		return "value"
	case KindBytecode:
		return "bytecode"
	case KindFrameIndex:
		return "frame-index"
	default:
		return fmt.Sprintf("SlotKind(%d)", uint8(k))
	}
}

// Slot is one word on the stack. What a slot means is determined by its
// position within a frame; the kind tag makes reading it as a frame
// pointer or bytecode address an explicit, checked step instead of a
// reinterpretation.
type Slot struct {
	Kind SlotKind
	v    int64
}

// NullSlot returns the null sentinel slot.
func NullSlot() Slot {
	return Slot{Kind: KindNull}
}

// ValueSlot returns a slot holding a plain value.
func ValueSlot(v int64) Slot {
	return Slot{Kind: KindValue, v: v}
}

// BytecodeSlot returns a slot holding a bytecode address.
func BytecodeSlot(addr int) Slot {
	return Slot{Kind: KindBytecode, v: int64(addr)}
}

// FrameIndexSlot returns a slot holding the index of a frame pointer slot.
func FrameIndexSlot(index int) Slot {
	return Slot{Kind: KindFrameIndex, v: int64(index)}
}

// IsNull reports whether the slot is the null sentinel.
func (s Slot) IsNull() bool {
	return s.Kind == KindNull
}

// AsValue decodes the slot as a plain value.
func (s Slot) AsValue() (int64, error) {
	if s.Kind != KindValue {
		return 0, fmt.Errorf("slot holds %s, not a value", s.Kind)
	}
	return s.v, nil
}

// AsBytecodeAddress decodes the slot as a bytecode address.
func (s Slot) AsBytecodeAddress() (int, error) {
	if s.Kind != KindBytecode {
		return 0, fmt.Errorf("slot holds %s, not a bytecode address", s.Kind)
	}
	return int(s.v), nil
}

// AsFrameIndex decodes the slot as a frame pointer index.
func (s Slot) AsFrameIndex() (int, error) {
	if s.Kind != KindFrameIndex {
		return 0, fmt.Errorf("slot holds %s, not a frame index", s.Kind)
	}
	return int(s.v), nil
}

// String renders the slot for stack dumps.
func (s Slot) String() string {
	switch s.Kind {
	case KindNull:
		return "null"
	case KindValue:
		return fmt.Sprintf("%d", s.v)
	case KindBytecode:
		return fmt.Sprintf("bcp:%d", s.v)
	case KindFrameIndex:
		return fmt.Sprintf("fp:%d", s.v)
	default:
		return fmt.Sprintf("?%d", s.v)
	}
}
