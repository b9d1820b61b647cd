package export

import (
	"bufio"
	"io"

	"github.com/chewxy/math32"
)

// countingWriter buffers writes and counts the bytes that reach w.
type countingWriter struct {
	bw *bufio.Writer
	n  int64
}

func newCountingWriter(w io.Writer) *countingWriter {
	return &countingWriter{bw: bufio.NewWriterSize(w, 1<<16)}
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.bw.Write(p)
	c.n += int64(n)
	return n, err
}

func (c *countingWriter) WriteString(s string) (int, error) {
	n, err := c.bw.WriteString(s)
	c.n += int64(n)
	return n, err
}

func (c *countingWriter) Flush() error { return c.bw.Flush() }

// channelByte quantizes a [0,1] color channel: round(clamp(v,0,1)*255).
func channelByte(v float32) uint8 {
	v = math32.Max(0, math32.Min(1, v))
	if v != v {
		return 0
	}
	return uint8(v*255 + 0.5)
}
