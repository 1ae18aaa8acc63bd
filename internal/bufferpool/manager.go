package bufferpool

import (
	"log/slog"

	"github.com/sasha-s/go-deadlock"

	"github.com/tuannm99/novabuf/internal/storage"
	"github.com/tuannm99/novabuf/pkg/clockx"
)

// Stats are cumulative counters since the manager was created.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	WriteBacks uint64
	Exhausted  uint64
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger sets the logger used for eviction and warning events. A nil
// logger keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager is a fixed-size page cache shared by any number of files.
// Victims are chosen with CLOCK (second chance).
//
// All state is guarded by one mutex, file I/O included: a victim is
// selected, written back and re-claimed without anyone observing the
// frame in between.
type Manager struct {
	mu deadlock.Mutex

	numBufs int
	descs   []frameDesc     // len == numBufs
	pool    []*storage.Page // len == numBufs, aligned with descs
	index   *frameIndex
	clock   *clockx.Clock

	log    *slog.Logger
	stats  Stats
	closed bool
}

// New creates a Manager with numBufs empty frames.
func New(numBufs int, opts ...Option) (*Manager, error) {
	if numBufs <= 0 {
		return nil, ErrInvalidPoolSize
	}
	m := &Manager{
		numBufs: numBufs,
		descs:   make([]frameDesc, numBufs),
		pool:    make([]*storage.Page, numBufs),
		index:   newFrameIndex(numBufs),
		clock:   clockx.New(numBufs),
		log:     slog.Default(),
	}
	for i := range numBufs {
		m.descs[i].frameNo = FrameID(i)
		m.descs[i].clear()
		m.pool[i] = &storage.Page{Buf: make([]byte, storage.PageSize)}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// NumBufs returns the number of frames in the pool.
func (m *Manager) NumBufs() int { return m.numBufs }

// Stats returns a snapshot of the pool counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// allocBuf picks a free frame, evicting an unpinned one if needed.
// The returned frame is empty and must be claimed by the caller.
func (m *Manager) allocBuf() (FrameID, error) {
	slot, ok, err := m.clock.Sweep(func(i int) (bool, error) {
		d := &m.descs[i]
		switch {
		case !d.valid:
			return true, nil
		case d.refBit:
			d.refBit = false
			return false, nil
		case d.pinCnt > 0:
			return false, nil
		}

		if d.dirty {
			if err := m.writeBack(d); err != nil {
				return false, &PageError{Op: "evict", File: d.file.Filename(), Page: d.pageNo, Frame: d.frameNo, Err: err}
			}
		}
		// Only drop the mapping once the page is safely on disk.
		m.index.remove(d.key())
		m.stats.Evictions++
		m.log.Debug("bufferpool: evict",
			"frame", d.frameNo,
			"file", d.file.Filename(),
			"page", d.pageNo,
		)
		d.clear()
		return true, nil
	})
	if err != nil {
		return -1, err
	}
	if !ok {
		m.stats.Exhausted++
		m.log.Warn("bufferpool: all frames pinned", "frames", m.numBufs)
		return -1, ErrCapacityExceeded
	}
	return FrameID(slot), nil
}

func (m *Manager) writeBack(d *frameDesc) error {
	pg := m.pool[d.frameNo]
	// The header is caller-writable; the descriptor is authoritative.
	pg.SetPageNumber(d.pageNo)
	if err := d.file.WritePage(pg); err != nil {
		return err
	}
	d.dirty = false
	m.stats.WriteBacks++
	return nil
}

// install copies src into frame fr, indexes it under pageNo and claims it
// with one pin. The frame header is stamped with pageNo.
func (m *Manager) install(f storage.File, pageNo storage.PageNumber, fr FrameID, src *storage.Page) (*PageHandle, error) {
	if err := m.index.insert(pageKey{file: f.ID(), page: pageNo}, fr); err != nil {
		return nil, &PageError{Op: "install", File: f.Filename(), Page: pageNo, Frame: fr, Err: err}
	}
	m.pool[fr].CopyFrom(src)
	m.pool[fr].SetPageNumber(pageNo)
	d := &m.descs[fr]
	d.set(f, pageNo)
	return m.handle(d), nil
}

// ReadPage pins the page and returns a handle to its frame, loading it
// from f on a miss. Every successful call must be paired with UnpinPage.
func (m *Manager) ReadPage(f storage.File, pageNo storage.PageNumber) (*PageHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}

	if fr, ok := m.index.lookup(pageKey{file: f.ID(), page: pageNo}); ok {
		d := &m.descs[fr]
		d.pinCnt++
		d.refBit = true
		m.stats.Hits++
		return m.handle(d), nil
	}
	m.stats.Misses++

	// Read before choosing a victim so a missing page costs no eviction.
	src, err := f.ReadPage(pageNo)
	if err != nil {
		return nil, &PageError{Op: "read page", File: f.Filename(), Page: pageNo, Frame: -1, Err: err}
	}
	fr, err := m.allocBuf()
	if err != nil {
		return nil, &PageError{Op: "read page", File: f.Filename(), Page: pageNo, Frame: -1, Err: err}
	}
	return m.install(f, pageNo, fr, src)
}

// AllocPage creates a new page in f and returns it pinned.
func (m *Manager) AllocPage(f storage.File) (storage.PageNumber, *PageHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return storage.InvalidPageNumber, nil, ErrManagerClosed
	}

	// Take the frame first: if the pool is exhausted no page is created on disk.
	fr, err := m.allocBuf()
	if err != nil {
		return storage.InvalidPageNumber, nil, &PageError{Op: "alloc page", File: f.Filename(), Frame: -1, Err: err}
	}
	src, err := f.AllocatePage()
	if err != nil {
		return storage.InvalidPageNumber, nil, &PageError{Op: "alloc page", File: f.Filename(), Frame: fr, Err: err}
	}
	pageNo := src.PageNumber()
	h, err := m.install(f, pageNo, fr, src)
	if err != nil {
		return storage.InvalidPageNumber, nil, err
	}
	return pageNo, h, nil
}

// UnpinPage releases one pin. Unpinning a page that is not resident is a no-op.
// A dirty mark sticks until the page is written back.
func (m *Manager) UnpinPage(f storage.File, pageNo storage.PageNumber, dirty bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fr, ok := m.index.lookup(pageKey{file: f.ID(), page: pageNo})
	if !ok {
		return nil
	}
	d := &m.descs[fr]
	if d.pinCnt <= 0 {
		return &PageError{Op: "unpin page", File: f.Filename(), Page: pageNo, Frame: fr, Err: ErrPageNotPinned}
	}
	m.unpinLocked(d, dirty)
	return nil
}

func (m *Manager) unpinLocked(d *frameDesc, dirty bool) {
	d.pinCnt--
	if dirty {
		d.dirty = true
	}
}

// FlushFile writes back every dirty page of f and drops all of f's pages
// from the pool, then closes f. It stops at the first pinned page; frames
// handled before that stay flushed.
func (m *Manager) FlushFile(f storage.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}

	id := f.ID()
	for i := range m.descs {
		d := &m.descs[i]
		if d.fileID != id {
			continue
		}
		if d.pinCnt > 0 {
			return &PageError{Op: "flush file", File: f.Filename(), Page: d.pageNo, Frame: d.frameNo, Err: ErrPagePinned}
		}
		if !d.valid || d.pageNo == storage.InvalidPageNumber {
			return &BadBufferError{Frame: d.frameNo, Dirty: d.dirty, Valid: d.valid, RefBit: d.refBit}
		}
		if d.dirty {
			if err := m.writeBack(d); err != nil {
				return &PageError{Op: "flush file", File: f.Filename(), Page: d.pageNo, Frame: d.frameNo, Err: err}
			}
		}
		m.index.remove(d.key())
		d.clear()
	}

	m.log.Debug("bufferpool: flushed file", "file", f.Filename())
	return f.Close()
}

// DisposePage drops the page from the pool without writing it back, pinned
// or not, and deletes it from f.
func (m *Manager) DisposePage(f storage.File, pageNo storage.PageNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}

	k := pageKey{file: f.ID(), page: pageNo}
	if fr, ok := m.index.lookup(k); ok {
		d := &m.descs[fr]
		if d.pinCnt > 0 {
			m.log.Warn("bufferpool: disposing pinned page",
				"file", f.Filename(),
				"page", pageNo,
				"pins", d.pinCnt,
			)
		}
		m.index.remove(k)
		d.clear()
	}

	if err := f.DeletePage(pageNo); err != nil {
		return &PageError{Op: "dispose page", File: f.Filename(), Page: pageNo, Frame: -1, Err: err}
	}
	return nil
}

// FlushAll writes back every dirty page. Pages stay resident and pinned.
func (m *Manager) FlushAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	return m.flushAllLocked()
}

func (m *Manager) flushAllLocked() error {
	for i := range m.descs {
		d := &m.descs[i]
		if !d.valid || !d.dirty {
			continue
		}
		if err := m.writeBack(d); err != nil {
			return &PageError{Op: "flush all", File: d.file.Filename(), Page: d.pageNo, Frame: d.frameNo, Err: err}
		}
	}
	return nil
}

// Close flushes all dirty pages. Further reads, allocations, flushes and
// disposals fail with ErrManagerClosed; unpinning is still allowed so
// callers can release handles they hold.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	if err := m.flushAllLocked(); err != nil {
		return err
	}
	m.closed = true
	return nil
}
