package stack_test

import (
	"errors"
	"testing"

	"dartino/pkg/stack"
)

func TestCallReturnRoundTrip(t *testing.T) {
	s := stack.New(64)
	m, err := stack.NewMachine(s, 10)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	fp := m.FramePointer()
	top := s.Top()

	if err := m.PushValue(7); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := m.Call(30); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if m.ByteCodePointer() != 30 {
		t.Fatalf("expected bcp 30 after call, got %d", m.ByteCodePointer())
	}
	if m.FramePointer() <= fp {
		t.Fatalf("callee frame pointer %d not above caller's %d", m.FramePointer(), fp)
	}

	m.Return(1)
	if m.ByteCodePointer() != 10 {
		t.Errorf("expected bcp 10 after return, got %d", m.ByteCodePointer())
	}
	if m.FramePointer() != fp {
		t.Errorf("expected frame pointer %d after return, got %d", fp, m.FramePointer())
	}
	if s.Top() != top {
		t.Errorf("expected top %d after return, got %d", top, s.Top())
	}
}

func TestSuspendResume(t *testing.T) {
	s := stack.New(64)
	m, err := stack.NewMachine(s, 10)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := m.Call(30); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	fp, bcp, top := m.FramePointer(), m.ByteCodePointer(), s.Top()

	if err := m.Suspend(); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	if !m.Suspended() {
		t.Fatal("machine not marked suspended")
	}

	// the suspended stack must be walkable
	if f := stack.First(s); !f.IsSentinel() {
		t.Fatalf("suspension did not produce a sentinel frame, size %d", f.Size())
	}

	m.Resume()
	if m.Suspended() {
		t.Fatal("machine still marked suspended")
	}
	if m.FramePointer() != fp || m.ByteCodePointer() != bcp || s.Top() != top {
		t.Fatalf("resume did not restore state: fp=%d bcp=%d top=%d, expected fp=%d bcp=%d top=%d",
			m.FramePointer(), m.ByteCodePointer(), s.Top(), fp, bcp, top)
	}
}

func TestPushOverflow(t *testing.T) {
	s := stack.New(4)
	m, err := stack.NewMachine(s, 0)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := m.PushValue(1); err != nil {
		t.Fatalf("push within capacity failed: %v", err)
	}
	if err := m.PushValue(2); !errors.Is(err, stack.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestBootstrapOverflow(t *testing.T) {
	if _, err := stack.NewMachine(stack.New(2), 0); !errors.Is(err, stack.ErrOverflow) {
		t.Fatalf("expected ErrOverflow on undersized stack, got %v", err)
	}
}
