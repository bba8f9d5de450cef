// Package framer extracts discrete protocol messages from a panel's byte
// stream. SIA frames are newline-delimited; Contact ID frames end at their
// '$' terminator. Reads arrive in arbitrary-sized chunks, so a frame may
// span several reads and one read may carry several frames.
package framer

import (
	"bytes"
	"errors"
	"io"
)

// ErrFrameTooLarge reports a message that exceeded the configured maximum
// without reaching a delimiter. The connection is closed without an ACK.
var ErrFrameTooLarge = errors.New("message exceeds maximum frame size")

// DefaultMaxFrameSize bounds an undelimited message before the connection is
// treated as faulted.
const DefaultMaxFrameSize = 4096

const readChunkSize = 1024

// Framer buffers one connection's byte stream and yields complete frames in
// arrival order. It is not safe for concurrent use; each connection owns one.
type Framer struct {
	r   io.Reader
	max int
	buf []byte
}

func New(r io.Reader, maxFrameSize int) *Framer {
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	return &Framer{r: r, max: maxFrameSize}
}

// Next returns the next complete frame. It blocks on the underlying reader
// until a delimiter arrives. On io.EOF any partial frame in the buffer is
// discarded: a panel that disconnects mid-message produces no event.
// ErrFrameTooLarge is returned once the buffer exceeds the maximum without a
// delimiter; the caller must close the connection.
func (f *Framer) Next() ([]byte, error) {
	for {
		if frame, ok := f.extract(); ok {
			return frame, nil
		}
		if len(f.buf) > f.max {
			return nil, ErrFrameTooLarge
		}

		chunk := make([]byte, readChunkSize)
		n, err := f.r.Read(chunk)
		if n > 0 {
			f.buf = append(f.buf, chunk[:n]...)
		}
		if err != nil {
			// Delimited data that arrived together with the error is
			// still delivered; the error resurfaces on the next call.
			if frame, ok := f.extract(); ok {
				return frame, nil
			}
			return nil, err
		}
	}
}

// Buffered reports how many bytes of an incomplete frame are pending.
func (f *Framer) Buffered() int {
	return len(f.buf)
}

// extract pops the first complete frame from the buffer. Newlines delimit
// text frames and are stripped (along with a preceding CR); '$' terminates a
// Contact ID frame and stays part of it. Empty text frames are skipped.
func (f *Framer) extract() ([]byte, bool) {
	for {
		i := bytes.IndexAny(f.buf, "\n$")
		if i < 0 {
			return nil, false
		}

		var frame []byte
		if f.buf[i] == '$' {
			frame = append([]byte(nil), f.buf[:i+1]...)
		} else {
			frame = append([]byte(nil), dropCR(f.buf[:i])...)
		}
		f.buf = append(f.buf[:0], f.buf[i+1:]...)

		if len(frame) == 0 {
			continue
		}
		return frame, true
	}
}

func dropCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}
