package stack

import "github.com/charmbracelet/log"

// Frame is a transient cursor over one activation record. General stack
// layout, lowest index at the bottom:
//
//	|     Locals       |
//	+------------------+
//	|     (empty)      |
//	|  Prev frame ptr  | <-- FramePointer()
//	|  Return bytecode |
//	+------------------+
//	|    Arguments     |
//	+------------------+
//	|       ...        |
//	|  Prev frame ptr  | <-- caller's FramePointer()
//
// A Frame is a value recomputed on demand from the stack, the frame
// pointer slot index, and the frame size in slots. It must not be
// retained across any point where the stack may be grown or relocated.
type Frame struct {
	stack *Stack
	fp    int
	size  int
}

// First bootstraps a walk from the top of a suspended stack: the top
// slot holds the frame pointer of a synthetic two-slot sentinel frame
// representing the boundary before any real call.
func First(s *Stack) Frame {
	fp, err := s.At(s.Top()).AsFrameIndex()
	if err != nil {
		log.Fatal("corrupted stack: top slot is not a frame pointer", "err", err)
	}
	return Frame{stack: s, fp: fp, size: s.Top() - fp}
}

// IsSentinel reports whether this is the synthetic base frame: exactly
// the two fixed slots, no arguments and no locals.
func (f Frame) IsSentinel() bool {
	return f.size == 2
}

// IsOutermost reports whether no caller remains above this frame: its
// previous-frame-pointer slot holds the null sentinel. Note that the
// sentinel frame and the outermost frame sit at opposite ends of the
// same walk; the two predicates are not complements of each other.
func (f Frame) IsOutermost() bool {
	return f.stack.At(f.fp).IsNull()
}

// Previous returns the next older frame. Advancing past the outermost
// frame means the caller skipped the IsOutermost check; that is a VM
// bug and aborts unconditionally.
func (f Frame) Previous() Frame {
	slot := f.stack.At(f.fp)
	if slot.IsNull() {
		log.Fatal("frame walk advanced past the outermost frame", "fp", f.fp)
	}
	prev, err := slot.AsFrameIndex()
	if err != nil {
		log.Fatal("corrupted stack: previous frame pointer slot", "fp", f.fp, "err", err)
	}
	return Frame{stack: f.stack, fp: prev, size: f.fp - prev}
}

// FramePointer returns the slot index anchoring this frame.
func (f Frame) FramePointer() int {
	return f.fp
}

// Size returns the frame size in slots.
func (f Frame) Size() int {
	return f.size
}

// ByteCodePointer returns the bytecode pointer captured for this frame
// at call (or suspend) time, stored in the frame's top slot. Undefined
// on the sentinel frame.
func (f Frame) ByteCodePointer() int {
	bcp, err := f.stack.At(f.fp + f.size - 1).AsBytecodeAddress()
	if err != nil {
		log.Fatal("corrupted stack: bytecode pointer slot", "fp", f.fp, "err", err)
	}
	return bcp
}

// ReturnAddress returns the bytecode pointer the caller resumes at,
// stored one slot below the frame pointer.
func (f Frame) ReturnAddress() int {
	addr, err := f.stack.At(f.fp - 1).AsBytecodeAddress()
	if err != nil {
		log.Fatal("corrupted stack: return address slot", "fp", f.fp, "err", err)
	}
	return addr
}

// PreviousFramePointer returns the older frame pointer index and true,
// or false when this frame is outermost.
func (f Frame) PreviousFramePointer() (int, bool) {
	slot := f.stack.At(f.fp)
	if slot.IsNull() {
		return 0, false
	}
	prev, err := slot.AsFrameIndex()
	if err != nil {
		log.Fatal("corrupted stack: previous frame pointer slot", "fp", f.fp, "err", err)
	}
	return prev, true
}

// Function resolves the Function owning this frame's bytecode pointer.
// Illegal on the sentinel frame, which executes no bytecode.
func (f Frame) Function(r Resolver) (Function, bool) {
	if f.IsSentinel() {
		log.Fatal("function resolution on the sentinel frame")
	}
	return r.FromBytecodePointer(f.ByteCodePointer())
}

// FirstLocalIndex returns the stack slot index where this frame's
// locals begin: two slots past the frame pointer. GC and debugger
// passes start root scanning here.
func (f Frame) FirstLocalIndex() int {
	return f.fp + 2
}

// EndIndex returns the exclusive upper bound of this frame's region;
// the next newer frame begins there.
func (f Frame) EndIndex() int {
	return f.fp + f.size
}
