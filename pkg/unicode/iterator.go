package unicode

// CodePointIterator walks a UTF-16 code unit buffer one code point at a
// time, merging valid surrogate pairs. An unpaired surrogate is yielded
// as-is rather than rejected. The iterator is forward-only and single
// pass; reuse requires a fresh instance.
type CodePointIterator struct {
	units []uint16
	ch    rune
	index int
	end   int
}

// NewCodePointIterator returns an iterator positioned before the first
// code point of units.
func NewCodePointIterator(units []uint16) *CodePointIterator {
	return &CodePointIterator{
		units: units,
		ch:    0,
		index: -1,
		end:   len(units),
	}
}

// Next advances to the next code point, returning false once the buffer
// is exhausted.
func (it *CodePointIterator) Next() bool {
	length := Utf16Length(it.ch)
	if it.index < it.end-length {
		it.index += length
		it.ch = rune(it.units[it.index])
		if IsLeadSurrogate(it.units[it.index]) && it.index < it.end-1 {
			cu2 := it.units[it.index+1]
			if IsTrailSurrogate(cu2) {
				it.ch = DecodePair(it.units[it.index], cu2)
			}
		}
		return true
	}
	it.index = it.end
	return false
}

// Current returns the code point produced by the last successful Next.
func (it *CodePointIterator) Current() rune {
	return it.ch
}

// Index returns the code unit index of the current code point.
func (it *CodePointIterator) Index() int {
	return it.index
}
