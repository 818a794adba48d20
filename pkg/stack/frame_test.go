package stack_test

import (
	"strings"
	"testing"

	"dartino/pkg/stack"
)

// testResolver covers the bytecode ranges used by the suspended-stack
// fixtures below.
func testResolver() *stack.RangeTable {
	return stack.NewRangeTable(
		stack.Function{Name: "main", Start: 10, End: 20},
		stack.Function{Name: "f", Start: 30, End: 40},
		stack.Function{Name: "g", Start: 50, End: 60},
	)
}

// suspendedStack builds a walkable stack three calls deep:
// main (locals 111, 222) called f with argument 7, f (local 333)
// called g, and the process was suspended inside g.
func suspendedStack(t *testing.T) *stack.Stack {
	t.Helper()

	s := stack.New(128)
	m, err := stack.NewMachine(s, 10)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	mustPush := func(v int64) {
		if err := m.PushValue(v); err != nil {
			t.Fatalf("push failed: %v", err)
		}
	}

	mustPush(111)
	mustPush(222)
	mustPush(7) // argument for f
	if err := m.Call(30); err != nil {
		t.Fatalf("call f failed: %v", err)
	}
	mustPush(333)
	if err := m.Call(50); err != nil {
		t.Fatalf("call g failed: %v", err)
	}
	if err := m.Suspend(); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	return s
}

func TestFirstFrameIsSentinel(t *testing.T) {
	s := suspendedStack(t)

	f := stack.First(s)
	if !f.IsSentinel() {
		t.Fatalf("bootstrap frame has size %d, expected the two-slot sentinel", f.Size())
	}
	if f.IsOutermost() {
		t.Fatal("sentinel frame reports outermost while calls are active")
	}
}

func TestFrameChainTermination(t *testing.T) {
	s := suspendedStack(t)

	// three active calls: exactly three advances reach the outermost frame
	f := stack.First(s)
	advances := 0
	for !f.IsOutermost() {
		f = f.Previous()
		advances++
		if advances > 10 {
			t.Fatal("frame chain does not terminate")
		}
	}
	if advances != 3 {
		t.Fatalf("expected 3 advances, got %d", advances)
	}
	if f.IsSentinel() {
		t.Fatal("outermost frame reports sentinel size")
	}
}

func TestFrameAccessors(t *testing.T) {
	s := suspendedStack(t)

	g := stack.First(s).Previous()
	if bcp := g.ByteCodePointer(); bcp != 50 {
		t.Errorf("innermost frame: expected bcp 50, got %d", bcp)
	}
	if ret := g.ReturnAddress(); ret != 30 {
		t.Errorf("innermost frame: expected return address 30, got %d", ret)
	}

	f := g.Previous()
	if bcp := f.ByteCodePointer(); bcp != 30 {
		t.Errorf("middle frame: expected bcp 30, got %d", bcp)
	}
	if ret := f.ReturnAddress(); ret != 10 {
		t.Errorf("middle frame: expected return address 10, got %d", ret)
	}

	main := f.Previous()
	if bcp := main.ByteCodePointer(); bcp != 10 {
		t.Errorf("outermost frame: expected bcp 10, got %d", bcp)
	}
	if _, ok := main.PreviousFramePointer(); ok {
		t.Error("outermost frame has a previous frame pointer")
	}

	prev, ok := g.PreviousFramePointer()
	if !ok || prev != f.FramePointer() {
		t.Errorf("expected previous frame pointer %d, got %d ok=%v", f.FramePointer(), prev, ok)
	}
}

func TestFunctionResolution(t *testing.T) {
	s := suspendedStack(t)
	resolver := testResolver()

	expected := []string{"g", "f", "main"}
	i := 0
	stack.Walk(s, func(f stack.Frame) bool {
		fn, ok := f.Function(resolver)
		if !ok {
			t.Fatalf("frame %d: bcp %d did not resolve", i, f.ByteCodePointer())
		}
		if fn.Name != expected[i] {
			t.Errorf("frame %d: expected %s, got %s", i, expected[i], fn.Name)
		}
		i++
		return true
	})
	if i != len(expected) {
		t.Fatalf("walked %d frames, expected %d", i, len(expected))
	}
}

func TestLocalsOrdering(t *testing.T) {
	s := suspendedStack(t)

	// more recent frames start their locals strictly higher on the stack
	var starts []int
	stack.Walk(s, func(f stack.Frame) bool {
		starts = append(starts, f.FirstLocalIndex())
		return true
	})
	for i := 1; i < len(starts); i++ {
		if starts[i-1] <= starts[i] {
			t.Fatalf("frame %d locals at %d, older frame %d at %d", i-1, starts[i-1], i, starts[i])
		}
	}
}

func TestScanRoots(t *testing.T) {
	s := suspendedStack(t)

	var values []int64
	stack.ScanRoots(s, func(index int, slot stack.Slot) {
		v, err := slot.AsValue()
		if err != nil {
			t.Fatalf("slot %d: %v", index, err)
		}
		values = append(values, v)
	})

	// innermost frame first: f's local, then main's locals and f's argument
	expected := []int64{333, 111, 222, 7}
	if len(values) != len(expected) {
		t.Fatalf("expected %d roots, got %d: %v", len(expected), len(values), values)
	}
	for i, v := range expected {
		if values[i] != v {
			t.Errorf("root %d: expected %d, got %d", i, v, values[i])
		}
	}
}

func TestCollectAndDump(t *testing.T) {
	s := suspendedStack(t)

	records := stack.Collect(s, testResolver())
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Function != "g" || records[1].Function != "f" || records[2].Function != "main" {
		t.Fatalf("unexpected function order: %v", records)
	}
	if records[1].ReturnAddress != 10 {
		t.Errorf("middle frame: expected return address 10, got %d", records[1].ReturnAddress)
	}
	if records[2].ReturnAddress != -1 {
		t.Errorf("outermost frame: expected return address -1, got %d", records[2].ReturnAddress)
	}

	var sb strings.Builder
	stack.Dump(&sb, s, testResolver())
	out := sb.String()
	for _, name := range []string{"main", "f", "g"} {
		if !strings.Contains(out, name) {
			t.Errorf("dump does not mention %s:\n%s", name, out)
		}
	}
}

func TestRangeTable(t *testing.T) {
	resolver := testResolver()

	tests := []struct {
		bcp         int
		name        string
		found       bool
		description string
	}{
		{10, "main", true, "range start"},
		{19, "main", true, "last address in range"},
		{20, "", false, "one past range end"},
		{35, "f", true, "inside second range"},
		{59, "g", true, "inside last range"},
		{0, "", false, "before all ranges"},
		{100, "", false, "after all ranges"},
	}

	for _, test := range tests {
		fn, ok := resolver.FromBytecodePointer(test.bcp)
		if ok != test.found {
			t.Errorf("bcp %d (%s): found=%v, expected %v", test.bcp, test.description, ok, test.found)
			continue
		}
		if ok && fn.Name != test.name {
			t.Errorf("bcp %d (%s): expected %s, got %s", test.bcp, test.description, test.name, fn.Name)
		}
	}
}
