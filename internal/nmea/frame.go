package nmea

import "bytes"

// BufferSize is the storage size of one serial read.
const BufferSize = 128

const (
	startMarker = '$'
	endMarker   = '*'
)

// RawBuffer holds one read from the serial source. Bytes after the written
// length are NUL padding.
type RawBuffer [BufferSize]byte

// Bytes returns the written prefix of the buffer (up to the first NUL).
func (b *RawBuffer) Bytes() []byte {
	return validPrefix(b[:])
}

// Fill copies p into a zeroed buffer and returns how many bytes fit.
func (b *RawBuffer) Fill(p []byte) int {
	*b = RawBuffer{}
	return copy(b[:], p)
}

// Frame holds the marker positions of a located sentence.
type Frame struct {
	Start int // index of '$'
	End   int // index of '*'
}

// Sentence returns buf[Start : End+3], the sentence including the checksum trailer.
func (f Frame) Sentence(buf []byte) []byte {
	return buf[f.Start : f.End+3]
}

// Trailer returns the two checksum characters following '*'.
func (f Frame) Trailer(buf []byte) []byte {
	return buf[f.End+1 : f.End+3]
}

// Locate finds the first sentence in buf.
//
// Each marker search starts from its own explicit offset: '$' from the buffer
// origin, '*' from the byte after '$'. Nothing is carried between calls.
// The two bytes after '*' must be present for the sentence to be complete.
func Locate(buf []byte) (Frame, error) {
	buf = validPrefix(buf)

	start := indexFrom(buf, startMarker, 0)
	if start < 0 {
		return Frame{}, ErrNoSentenceFramed
	}
	end := indexFrom(buf, endMarker, start+1)
	if end < 0 {
		return Frame{}, ErrNoSentenceFramed
	}
	if end+2 >= len(buf) {
		return Frame{}, ErrIncompleteSentence
	}
	return Frame{Start: start, End: end}, nil
}

func indexFrom(buf []byte, c byte, from int) int {
	if from >= len(buf) {
		return -1
	}
	i := bytes.IndexByte(buf[from:], c)
	if i < 0 {
		return -1
	}
	return from + i
}

// validPrefix bounds buf to BufferSize and cuts it at the first NUL.
func validPrefix(buf []byte) []byte {
	if len(buf) > BufferSize {
		buf = buf[:BufferSize]
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return buf
}
