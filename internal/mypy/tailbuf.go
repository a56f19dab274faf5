package mypy

import (
	"github.com/armon/circbuf"
)

// tailBuffer is an io.Writer that retains only the last N bytes written.
type tailBuffer struct {
	buf *circbuf.Buffer
}

func newTailBuffer(limit int) *tailBuffer {
	b, err := circbuf.NewBuffer(int64(limit))
	if err != nil {
		return &tailBuffer{}
	}
	return &tailBuffer{buf: b}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	if b.buf == nil {
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *tailBuffer) String() string {
	if b.buf == nil {
		return ""
	}
	return b.buf.String()
}
