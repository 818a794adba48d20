package stack

import "github.com/charmbracelet/log"

// Machine is the register file of one executing process: its stack, the
// current frame pointer, and the current bytecode pointer. It implements
// the calling convention that Frame navigation depends on, so the
// interpreter loop, the GC, and the debugger agree on layout. It
// executes no instructions itself.
type Machine struct {
	stack     *Stack
	fp        int
	bcp       int
	suspended bool
}

// NewMachine bootstraps a process stack with the outermost frame for the
// entry function: a null return-address slot, the null previous-frame-
// pointer slot that terminates every walk, and the fixed empty slot.
func NewMachine(s *Stack, entry int) (*Machine, error) {
	if err := s.Push(NullSlot()); err != nil { // return address of the entry call
		return nil, err
	}
	if err := s.Push(NullSlot()); err != nil { // end-of-chain sentinel
		return nil, err
	}
	fp := s.Top()
	if err := s.Push(NullSlot()); err != nil { // fixed empty slot
		return nil, err
	}
	return &Machine{stack: s, fp: fp, bcp: entry}, nil
}

// Stack returns the machine's stack.
func (m *Machine) Stack() *Stack {
	return m.stack
}

// FramePointer returns the current frame pointer index.
func (m *Machine) FramePointer() int {
	return m.fp
}

// ByteCodePointer returns the current bytecode pointer.
func (m *Machine) ByteCodePointer() int {
	return m.bcp
}

// Push appends a slot to the current frame (a local, or an argument for
// an upcoming call).
func (m *Machine) Push(slot Slot) error {
	return m.stack.Push(slot)
}

// PushValue pushes a plain value slot.
func (m *Machine) PushValue(v int64) error {
	return m.stack.Push(ValueSlot(v))
}

// Call transfers control to target after the caller has pushed the
// arguments: it pushes the return bytecode pointer, saves the caller's
// frame pointer (that slot becomes the callee's frame pointer), and
// pushes the fixed empty slot.
func (m *Machine) Call(target int) error {
	if err := m.stack.Push(BytecodeSlot(m.bcp)); err != nil {
		return err
	}
	if err := m.stack.Push(FrameIndexSlot(m.fp)); err != nil {
		return err
	}
	m.fp = m.stack.Top()
	if err := m.stack.Push(NullSlot()); err != nil {
		return err
	}
	m.bcp = target
	return nil
}

// Return tears down the current frame and its argc argument slots,
// restoring the caller's frame pointer and resuming at the return
// address. Returning from the outermost frame is a VM bug: the
// interpreter halts the process instead of returning from its entry.
func (m *Machine) Return(argc int) {
	slot := m.stack.At(m.fp)
	if slot.IsNull() {
		log.Fatal("return from the outermost frame", "fp", m.fp)
	}
	prev, err := slot.AsFrameIndex()
	if err != nil {
		log.Fatal("corrupted stack: saved frame pointer slot", "fp", m.fp, "err", err)
	}
	ret, err := m.stack.At(m.fp - 1).AsBytecodeAddress()
	if err != nil {
		log.Fatal("corrupted stack: return address slot", "fp", m.fp, "err", err)
	}
	m.stack.SetTop(m.fp - 2 - argc)
	m.fp = prev
	m.bcp = ret
}

// Suspend parks the running state on the stack so an external tool can
// walk it: it pushes the current bytecode pointer, the current frame
// pointer (the sentinel frame's previous-frame-pointer slot), the fixed
// empty slot, and finally the sentinel frame pointer itself at the top,
// where Frame bootstrap expects it.
func (m *Machine) Suspend() error {
	if m.suspended {
		log.Fatal("suspend on a suspended machine")
	}
	if err := m.stack.Push(BytecodeSlot(m.bcp)); err != nil {
		return err
	}
	if err := m.stack.Push(FrameIndexSlot(m.fp)); err != nil {
		return err
	}
	sentinel := m.stack.Top()
	if err := m.stack.Push(NullSlot()); err != nil {
		return err
	}
	if err := m.stack.Push(FrameIndexSlot(sentinel)); err != nil {
		return err
	}
	m.suspended = true
	return nil
}

// Resume pops the suspension record and restores the running state.
func (m *Machine) Resume() {
	if !m.suspended {
		log.Fatal("resume on a running machine")
	}
	if _, err := m.stack.Pop().AsFrameIndex(); err != nil {
		log.Fatal("corrupted stack: suspension record", "err", err)
	}
	m.stack.Pop() // fixed empty slot
	fp, err := m.stack.Pop().AsFrameIndex()
	if err != nil {
		log.Fatal("corrupted stack: suspended frame pointer", "err", err)
	}
	bcp, err := m.stack.Pop().AsBytecodeAddress()
	if err != nil {
		log.Fatal("corrupted stack: suspended bytecode pointer", "err", err)
	}
	m.fp = fp
	m.bcp = bcp
	m.suspended = false
}

// Suspended reports whether the machine is parked for stack walking.
func (m *Machine) Suspended() bool {
	return m.suspended
}
