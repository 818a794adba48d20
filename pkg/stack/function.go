package stack

import (
	"fmt"
	"sort"
)

// Function identifies a unit of bytecode by its address range
// [Start, End) in the bytecode stream. Functions are owned by the
// object heap; this package only resolves them, never mutates them.
type Function struct {
	Name  string
	Start int
	End   int
}

// Contains reports whether bcp falls inside the function's range.
func (f Function) Contains(bcp int) bool {
	return bcp >= f.Start && bcp < f.End
}

// String renders the function and its range.
func (f Function) String() string {
	return fmt.Sprintf("%s [%d,%d)", f.Name, f.Start, f.End)
}

// Resolver answers "which function owns bytecode address X". It is
// implemented by the object-heap/compiler subsystem; RangeTable is a
// standalone implementation for tools and tests.
type Resolver interface {
	FromBytecodePointer(bcp int) (Function, bool)
}

// RangeTable resolves functions from a sorted list of non-overlapping
// bytecode ranges.
type RangeTable struct {
	funcs []Function
}

// NewRangeTable builds a table from the given functions, sorting them
// by range start.
func NewRangeTable(funcs ...Function) *RangeTable {
	sorted := append([]Function(nil), funcs...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return &RangeTable{funcs: sorted}
}

// FromBytecodePointer resolves the function whose range contains bcp.
func (t *RangeTable) FromBytecodePointer(bcp int) (Function, bool) {
	i := sort.Search(len(t.funcs), func(i int) bool {
		return t.funcs[i].End > bcp
	})
	if i < len(t.funcs) && t.funcs[i].Contains(bcp) {
		return t.funcs[i], true
	}
	return Function{}, false
}
