package source

import (
	"bufio"
	"errors"
	"io"
)

// LineReader only ever yields whole newline-terminated lines. A trailing
// unterminated line is held back until its newline arrives, which lets a CSV
// parser follow a file that is still being written.
type LineReader struct {
	r *bufio.Reader
	// partial is the unterminated tail read so far.
	partial []byte
	// ready holds complete lines not yet handed out.
	ready []byte
}

var _ io.Reader = (*LineReader)(nil)

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

func (l *LineReader) Read(b []byte) (int, error) {
	if len(l.ready) == 0 {
		data, err := l.r.ReadBytes('\n')
		l.partial = append(l.partial, data...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			return 0, err
		}
		l.ready, l.partial = l.partial, nil
	}
	n := copy(b, l.ready)
	l.ready = l.ready[n:]
	return n, nil
}
