package stack

import (
	"errors"

	"github.com/charmbracelet/log"
)

// Stack is the exclusively-owned slot array of one process. It is
// allocated at a fixed capacity by the process subsystem and never grown
// or relocated here; this package only addresses into it. Only the
// owning interpreter loop, or an external tool that has paused the
// process, may touch it.
type Stack struct {
	slots []Slot
	top   int // index of the topmost occupied slot, -1 when empty
}

// ErrOverflow is reported by Push when the stack is out of capacity.
// The process subsystem reacts by growing the stack and retrying.
var ErrOverflow = errors.New("stack overflow")

// New allocates a stack with the given slot capacity.
func New(capacity int) *Stack {
	return &Stack{
		slots: make([]Slot, capacity),
		top:   -1,
	}
}

// Capacity returns the total number of slots.
func (s *Stack) Capacity() int {
	return len(s.slots)
}

// Top returns the index of the topmost occupied slot, or -1 when empty.
func (s *Stack) Top() int {
	return s.top
}

// SetTop discards every slot above index. Addressing past the capacity
// or below -1 is a VM bug and aborts.
func (s *Stack) SetTop(index int) {
	if index < -1 || index >= len(s.slots) {
		log.Fatal("corrupted stack: top out of range", "index", index, "capacity", len(s.slots))
	}
	for i := index + 1; i <= s.top; i++ {
		s.slots[i] = NullSlot()
	}
	s.top = index
}

// At returns the slot at index. An out-of-range index means frame
// navigation went off the rails; that is a VM bug, not bad input, so it
// aborts instead of returning an error.
func (s *Stack) At(index int) Slot {
	if index < 0 || index > s.top {
		log.Fatal("corrupted stack: slot index out of range", "index", index, "top", s.top)
	}
	return s.slots[index]
}

// SetAt overwrites the slot at index.
func (s *Stack) SetAt(index int, slot Slot) {
	if index < 0 || index > s.top {
		log.Fatal("corrupted stack: slot index out of range", "index", index, "top", s.top)
	}
	s.slots[index] = slot
}

// Push appends a slot, returning ErrOverflow when out of capacity.
func (s *Stack) Push(slot Slot) error {
	if s.top+1 >= len(s.slots) {
		return ErrOverflow
	}
	s.top++
	s.slots[s.top] = slot
	return nil
}

// Pop removes and returns the topmost slot. Popping an empty stack is a
// VM bug and aborts.
func (s *Stack) Pop() Slot {
	if s.top < 0 {
		log.Fatal("corrupted stack: pop on empty stack")
	}
	slot := s.slots[s.top]
	s.slots[s.top] = NullSlot()
	s.top--
	return slot
}
