package stack

import (
	"fmt"
	"io"

	"dartino/pkg/color"
)

// Walk visits every real frame of a suspended stack from the most
// recent call down to the outermost one, skipping the sentinel frame.
// The visit callback returns false to stop early.
func Walk(s *Stack, visit func(Frame) bool) {
	f := First(s)
	for {
		if !f.IsSentinel() {
			if !visit(f) {
				return
			}
		}
		if f.IsOutermost() {
			return
		}
		f = f.Previous()
	}
}

// ScanRoots visits every value slot in the locals-and-arguments region
// of every real frame. This is the GC root-scanning pass: the region of
// frame f is [f.FirstLocalIndex(), f.EndIndex()).
func ScanRoots(s *Stack, fn func(index int, slot Slot)) {
	Walk(s, func(f Frame) bool {
		for i := f.FirstLocalIndex(); i < f.EndIndex(); i++ {
			slot := s.At(i)
			if slot.Kind == KindValue {
				fn(i, slot)
			}
		}
		return true
	})
}

// FrameRecord is the debugger view of one frame.
type FrameRecord struct {
	Function      string // resolved name, or "" when unresolved
	ByteCode      int
	ReturnAddress int // -1 on the outermost frame, which has no caller
	FirstLocal    int
	Locals        []Slot
}

// Collect walks a suspended stack and resolves each frame into a
// FrameRecord, most recent call first. A nil resolver leaves function
// names empty.
func Collect(s *Stack, r Resolver) []FrameRecord {
	var records []FrameRecord
	Walk(s, func(f Frame) bool {
		rec := FrameRecord{
			ByteCode:      f.ByteCodePointer(),
			ReturnAddress: -1,
			FirstLocal:    f.FirstLocalIndex(),
		}
		if !f.IsOutermost() {
			rec.ReturnAddress = f.ReturnAddress()
		}
		if r != nil {
			if fn, ok := f.Function(r); ok {
				rec.Function = fn.Name
			}
		}
		for i := f.FirstLocalIndex(); i < f.EndIndex(); i++ {
			rec.Locals = append(rec.Locals, s.At(i))
		}
		records = append(records, rec)
		return true
	})
	return records
}

// Dump writes a human-readable trace of a suspended stack to w, most
// recent call first.
func Dump(w io.Writer, s *Stack, r Resolver) {
	records := Collect(s, r)
	for i, rec := range records {
		name := rec.Function
		if name == "" {
			name = "<unknown>"
		}
		fmt.Fprintf(w, "%s %s at %s\n",
			color.CyanText(fmt.Sprintf("#%d", i)),
			color.YellowText(name),
			color.BlueText(fmt.Sprintf("bcp=%d", rec.ByteCode)))
		for j, slot := range rec.Locals {
			fmt.Fprintf(w, "    %s = %s\n",
				color.GrayText(fmt.Sprintf("slot[%d]", rec.FirstLocal+j)),
				slot.String())
		}
	}
	if len(records) == 0 {
		fmt.Fprintln(w, color.GrayText("no active calls"))
	}
}
