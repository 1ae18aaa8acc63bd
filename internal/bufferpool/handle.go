package bufferpool

import "github.com/tuannm99/novabuf/internal/storage"

// PageHandle refers to a pinned page in the pool. It stays usable while the
// frame still holds the same claim and has at least one pin; after that
// Page returns ErrStaleHandle instead of memory that may belong to another
// page.
//
// A handle owns exactly one pin. Once Unpin succeeds the handle is spent and
// every later call on it returns ErrStaleHandle.
type PageHandle struct {
	m        *Manager
	file     storage.File
	frame    FrameID
	gen      uint64
	pageNo   storage.PageNumber
	released bool // guarded by m.mu
}

func (m *Manager) handle(d *frameDesc) *PageHandle {
	return &PageHandle{
		m:      m,
		file:   d.file,
		frame:  d.frameNo,
		gen:    d.gen,
		pageNo: d.pageNo,
	}
}

func (h *PageHandle) PageNumber() storage.PageNumber { return h.pageNo }

func (h *PageHandle) Frame() FrameID { return h.frame }

// Page returns the resident page. Writes through it must be reported with
// Unpin(true) or UnpinPage(..., true).
func (h *PageHandle) Page() (*storage.Page, error) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()

	if !h.liveLocked() {
		return nil, ErrStaleHandle
	}
	return h.m.pool[h.frame], nil
}

// Unpin releases the pin this handle owns. It fails with ErrStaleHandle if
// the handle is spent or its frame was released or re-claimed since.
func (h *PageHandle) Unpin(dirty bool) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()

	if !h.liveLocked() {
		return &PageError{Op: "unpin page", File: h.file.Filename(), Page: h.pageNo, Frame: h.frame, Err: ErrStaleHandle}
	}
	h.m.unpinLocked(&h.m.descs[h.frame], dirty)
	h.released = true
	return nil
}

func (h *PageHandle) liveLocked() bool {
	d := &h.m.descs[h.frame]
	return !h.released && d.valid && d.gen == h.gen && d.pinCnt > 0
}
