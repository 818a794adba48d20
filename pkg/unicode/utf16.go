package unicode

const (
	// maxCodeUnit is the largest code point representable in one UTF-16
	// code unit.
	maxCodeUnit = 0xFFFF

	leadSurrogateStart  = 0xD800
	leadSurrogateEnd    = 0xDBFF
	trailSurrogateStart = 0xDC00
	trailSurrogateEnd   = 0xDFFF

	// leadSurrogateOffset folds the 0x10000 bias into the lead surrogate
	// base: lead = leadSurrogateOffset + (ch >> 10).
	leadSurrogateOffset = leadSurrogateStart - (0x10000 >> 10)
)

// IsLeadSurrogate reports whether cu is in the lead surrogate range.
func IsLeadSurrogate(cu uint16) bool {
	return cu >= leadSurrogateStart && cu <= leadSurrogateEnd
}

// IsTrailSurrogate reports whether cu is in the trail surrogate range.
func IsTrailSurrogate(cu uint16) bool {
	return cu >= trailSurrogateStart && cu <= trailSurrogateEnd
}

// DecodePair merges a valid lead/trail surrogate pair into one
// supplementary code point.
func DecodePair(lead, trail uint16) rune {
	return (rune(lead-leadSurrogateStart)<<10 | rune(trail-trailSurrogateStart)) + 0x10000
}

// EncodePair writes the surrogate pair for a supplementary code point to
// dst[0] and dst[1]. The caller guarantees ch > U+FFFF.
func EncodePair(ch rune, dst []uint16) {
	dst[0] = uint16(leadSurrogateOffset + ch>>10)
	dst[1] = uint16(trailSurrogateStart + ch&0x3FF)
}

// Utf16Length returns the number of UTF-16 code units needed for ch:
// 1 for basic-plane code points, 2 for supplementary ones.
func Utf16Length(ch rune) int {
	if ch <= maxCodeUnit {
		return 1
	}
	return 2
}
