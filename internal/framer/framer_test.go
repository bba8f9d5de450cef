package framer

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkReader delivers each chunk on a separate Read call, then io.EOF, the
// way TCP segments arrive.
type chunkReader struct {
	chunks [][]byte
	i      int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.i >= len(r.chunks) {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[r.i])
	r.i++
	return n, nil
}

func newChunkReader(chunks ...string) *chunkReader {
	r := &chunkReader{}
	for _, c := range chunks {
		r.chunks = append(r.chunks, []byte(c))
	}
	return r
}

func collect(t *testing.T, f *Framer) ([]string, error) {
	t.Helper()
	var frames []string
	for {
		frame, err := f.Next()
		if err != nil {
			return frames, err
		}
		frames = append(frames, string(frame))
	}
}

func TestSingleFrame(t *testing.T) {
	f := New(newChunkReader("[\"1234\"]120000,010124|BA1\n"), 0)

	frames, err := collect(t, f)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("terminal error = %v, want EOF", err)
	}
	if len(frames) != 1 || frames[0] != `["1234"]120000,010124|BA1` {
		t.Errorf("frames = %q", frames)
	}
}

func TestFrameSplitAcrossReads(t *testing.T) {
	f := New(newChunkReader("[\"1234\"]1200", "00,010124|", "BA1\n"), 0)

	frames, _ := collect(t, f)
	if len(frames) != 1 || frames[0] != `["1234"]120000,010124|BA1` {
		t.Errorf("frames = %q", frames)
	}
}

func TestMultipleFramesInOneRead(t *testing.T) {
	f := New(newChunkReader("[\"1\"]120000,010124|BA1\n[\"2\"]120001,010124|BA2\n"), 0)

	frames, _ := collect(t, f)
	want := []string{`["1"]120000,010124|BA1`, `["2"]120001,010124|BA2`}
	if len(frames) != 2 || frames[0] != want[0] || frames[1] != want[1] {
		t.Errorf("frames = %q, want %q", frames, want)
	}
}

func TestCIDFrameTerminatedByDollar(t *testing.T) {
	f := New(newChunkReader("1234181131010158$"), 0)

	frames, _ := collect(t, f)
	if len(frames) != 1 || frames[0] != "1234181131010158$" {
		t.Errorf("frames = %q", frames)
	}
}

func TestMixedProtocolsOneRead(t *testing.T) {
	f := New(newChunkReader("1234181131010158$[\"1234\"]120000,010124|BA1\n"), 0)

	frames, _ := collect(t, f)
	want := []string{"1234181131010158$", `["1234"]120000,010124|BA1`}
	if len(frames) != 2 || frames[0] != want[0] || frames[1] != want[1] {
		t.Errorf("frames = %q, want %q", frames, want)
	}
}

func TestPartialFrameAtEOFDiscarded(t *testing.T) {
	f := New(newChunkReader("[\"1234\"]120000,010124|BA1\n[\"5678\"]1200"), 0)

	frames, err := collect(t, f)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("terminal error = %v, want EOF", err)
	}
	if len(frames) != 1 {
		t.Errorf("frames = %q, want exactly the delimited one", frames)
	}
	if f.Buffered() == 0 {
		t.Error("expected discarded partial to have been buffered before EOF")
	}
}

func TestCRLFStripped(t *testing.T) {
	f := New(newChunkReader("[\"1234\"]120000,010124|BA1\r\n"), 0)

	frames, _ := collect(t, f)
	if len(frames) != 1 || strings.HasSuffix(frames[0], "\r") {
		t.Errorf("frames = %q, want CR stripped", frames)
	}
}

func TestEmptyLinesSkipped(t *testing.T) {
	f := New(newChunkReader("\n\n[\"1\"]120000,010124|BA1\n\n"), 0)

	frames, _ := collect(t, f)
	if len(frames) != 1 {
		t.Errorf("frames = %q, want one", frames)
	}
}

func TestOversizedFrameFault(t *testing.T) {
	long := strings.Repeat("x", 200)
	f := New(newChunkReader(long, long), 64)

	_, err := f.Next()
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("Next() error = %v, want ErrFrameTooLarge", err)
	}
}

func TestOversizedLimitIgnoresDelimitedFrames(t *testing.T) {
	// A frame under the limit followed by garbage over it: the good frame
	// is still delivered first.
	f := New(newChunkReader("[\"1\"]120000,010124|BA1\n"+strings.Repeat("x", 200)), 64)

	frame, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(frame) != `["1"]120000,010124|BA1` {
		t.Errorf("frame = %q", frame)
	}

	if _, err := f.Next(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("second Next() error = %v, want ErrFrameTooLarge", err)
	}
}
