// Package unicode implements the UTF-8 codec and UTF-16 surrogate helpers
// that back the VM's string representation. All functions are pure and
// stateless; they are safe to call concurrently on independent buffers.
package unicode

import "errors"

const (
	maxOneByteChar   = 0x7F
	maxTwoByteChar   = 0x7FF
	maxThreeByteChar = 0xFFFF
	maxFourByteChar  = 0x10FFFF
)

// WidthClass classifies the widest character a UTF-8 buffer decodes to.
type WidthClass int

const (
	// Latin1 means every code point fits in a single byte (<= U+00FF).
	Latin1 WidthClass = iota
	// BasicPlane means every code point fits in one UTF-16 code unit.
	BasicPlane
	// Supplementary means at least one code point needs a surrogate pair.
	Supplementary
)

// String returns a human-readable name for the width class.
func (c WidthClass) String() string {
	switch c {
	case Latin1:
		return "latin-1"
	case BasicPlane:
		return "basic-plane"
	case Supplementary:
		return "supplementary"
	default:
		return "unknown"
	}
}

// seqLength maps a lead byte to the total length of its sequence.
// Stray continuation bytes and 0xFE/0xFF map to 0 and are rejected by
// DecodeRune as length-1 invalid sequences. Lengths 5 and 6 survive the
// table so that the overlong check can reject them with everything else.
var seqLength = [256]uint8{
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	4, 4, 4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 6, 6, 0, 0,
}

// magicBits removes the header bits accumulated from the lead and
// continuation byte patterns in a single subtraction, indexed by
// sequence length (index 0 is padding).
var magicBits = [7]uint32{
	0,
	0x00000000, 0x00003080, 0x000E2080,
	0x03C82080, 0xFA082080, 0x82082080,
}

// overlongMinimum holds the smallest code point that legitimately needs
// the indexed sequence length; anything below it is an overlong encoding.
var overlongMinimum = [7]uint32{
	0,
	0x0, 0x80, 0x800,
	0x10000, 0xFFFFFFFF, 0xFFFFFFFF,
}

var (
	ErrInvalid    = errors.New("invalid UTF-8 sequence")
	ErrTruncated  = errors.New("truncated UTF-8 sequence")
	ErrBufferFull = errors.New("destination buffer full")
)

// isTrailByte reports whether b matches the 10xxxxxx continuation pattern.
func isTrailByte(b byte) bool {
	return b&0xC0 == 0x80
}

// isLatin1SequenceStart reports whether a lead byte begins a code point
// at or below U+00FF.
func isLatin1SequenceStart(b byte) bool {
	return b <= 0xC3
}

// isSupplementarySequenceStart reports whether a lead byte begins a code
// point at or above U+10000.
func isSupplementarySequenceStart(b byte) bool {
	return b >= 0xF0
}

// isOutOfRange reports whether ch is beyond the Unicode code space.
func isOutOfRange(ch uint32) bool {
	return ch > maxFourByteChar
}

// isNonShortestForm reports whether ch uses more bytes than the shortest
// valid encoding of its value.
func isNonShortestForm(ch uint32, seqLen int) bool {
	return ch < overlongMinimum[seqLen]
}

// Utf8Length returns the number of bytes needed to encode ch.
// The caller guarantees ch <= U+10FFFF.
func Utf8Length(ch rune) int {
	if ch <= maxOneByteChar {
		return 1
	} else if ch <= maxTwoByteChar {
		return 2
	} else if ch <= maxThreeByteChar {
		return 3
	}
	return 4
}

// EncodeRune writes the UTF-8 encoding of ch to dst and returns the
// number of bytes written. The caller guarantees ch <= U+10FFFF and that
// dst has room for Utf8Length(ch) bytes.
func EncodeRune(ch rune, dst []byte) int {
	const mask = ^(1 << 6)
	if ch <= maxOneByteChar {
		dst[0] = byte(ch)
		return 1
	}
	if ch <= maxTwoByteChar {
		dst[0] = byte(0xC0 | ch>>6)
		dst[1] = byte(0x80 | ch&mask)
		return 2
	}
	if ch <= maxThreeByteChar {
		dst[0] = byte(0xE0 | ch>>12)
		dst[1] = byte(0x80 | ch>>6&mask)
		dst[2] = byte(0x80 | ch&mask)
		return 3
	}
	dst[0] = byte(0xF0 | ch>>18)
	dst[1] = byte(0x80 | ch>>12&mask)
	dst[2] = byte(0x80 | ch>>6&mask)
	dst[3] = byte(0x80 | ch&mask)
	return 4
}

// DecodeRune decodes the first UTF-8 sequence in src and returns the
// code point and the number of bytes consumed. On failure it consumes
// zero bytes and reports ErrTruncated when src ends before the sequence
// does, or ErrInvalid for malformed trail bytes, out-of-range code
// points, and overlong encodings.
func DecodeRune(src []byte) (rune, int, error) {
	if len(src) == 0 {
		return 0, 0, ErrTruncated
	}

	ch := uint32(src[0])
	i := 1
	if ch >= 0x80 {
		length := int(seqLength[ch])
		malformed := false
		for ; i < length; i++ {
			if i >= len(src) {
				return 0, 0, ErrTruncated
			}
			cu := src[i]
			if !isTrailByte(cu) {
				malformed = true
			}
			ch = ch<<6 + uint32(cu)
		}

		// one subtraction strips the lead and continuation headers
		ch -= magicBits[length]
		if malformed || i != length || isOutOfRange(ch) || isNonShortestForm(ch, i) {
			return 0, 0, ErrInvalid
		}
	}

	return rune(ch), i, nil
}

// CodeUnitCount counts, without fully decoding, how many UTF-16 code
// units src decodes to, and classifies the widest code point seen. Only
// lead bytes are inspected; a supplementary lead contributes two units.
// The count lets callers pre-size a destination buffer in one pass.
func CodeUnitCount(src []byte) (int, WidthClass) {
	count := 0
	class := Latin1
	for _, cu := range src {
		if isTrailByte(cu) {
			continue
		}
		count++
		if !isLatin1SequenceStart(cu) { // beyond U+00FF
			if isSupplementarySequenceStart(cu) { // at or beyond U+10000
				class = Supplementary
				count++
			} else if class == Latin1 {
				class = BasicPlane
			}
		}
	}
	return count, class
}

// DecodeToUTF16 decodes src one UTF-8 sequence at a time into dst,
// surrogate-pair-encoding supplementary code points. It reports
// ErrInvalid or ErrTruncated for malformed input and ErrBufferFull when
// dst is exhausted before src is fully consumed.
func DecodeToUTF16(src []byte, dst []uint16) error {
	i, j := 0, 0
	for i < len(src) && j < len(dst) {
		supplementary := isSupplementarySequenceStart(src[i])
		ch, n, err := DecodeRune(src[i:])
		if err != nil {
			return err
		}
		if supplementary {
			if j+2 > len(dst) {
				return ErrBufferFull
			}
			EncodePair(ch, dst[j:])
			j += 2
		} else {
			dst[j] = uint16(ch)
			j++
		}
		i += n
	}
	if i < len(src) {
		return ErrBufferFull
	}
	return nil
}

// DecodeString decodes a whole UTF-8 buffer into a freshly sized UTF-16
// code unit buffer, returning the buffer and its width class.
func DecodeString(src []byte) ([]uint16, WidthClass, error) {
	count, class := CodeUnitCount(src)
	units := make([]uint16, count)
	if err := DecodeToUTF16(src, units); err != nil {
		return nil, class, err
	}
	return units, class, nil
}

// StringUtf8Length returns the number of bytes the UTF-16 code unit
// buffer occupies when encoded as UTF-8.
func StringUtf8Length(units []uint16) int {
	length := 0
	it := NewCodePointIterator(units)
	for it.Next() {
		length += Utf8Length(it.Current())
	}
	return length
}

// EncodeString encodes the UTF-16 code unit buffer to UTF-8 in dst,
// stopping before the first code point that does not fit. It returns the
// number of bytes written.
func EncodeString(units []uint16, dst []byte) int {
	pos := 0
	it := NewCodePointIterator(units)
	for it.Next() {
		ch := it.Current()
		numBytes := Utf8Length(ch)
		if pos+numBytes > len(dst) {
			break
		}
		EncodeRune(ch, dst[pos:])
		pos += numBytes
	}
	return pos
}
