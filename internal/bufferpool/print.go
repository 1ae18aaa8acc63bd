package bufferpool

import (
	"fmt"
	"io"
)

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Fprintf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

// PrintSelf dumps every frame descriptor and the number of valid frames.
func (m *Manager) PrintSelf(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ew := &errWriter{w: w}
	valid := 0
	for i := range m.descs {
		d := &m.descs[i]
		ew.Fprintf("FrameNo:%d %s\n", i, d)
		if d.valid {
			valid++
		}
	}
	ew.Fprintf("Total Number of Valid Frames:%d\n", valid)
	return ew.err
}
