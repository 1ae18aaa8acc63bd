package storage

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dsnet/golib/memfile"
	"github.com/golang-collections/collections/stack"
)

var _ File = (*MemFile)(nil)

// FileStats counts calls made against a MemFile.
type FileStats struct {
	Reads   int
	Writes  int
	Allocs  int
	Deletes int
	Closes  int
}

// MemFile is a File held entirely in memory. Deleted page numbers are
// handed out again, most recently freed first.
type MemFile struct {
	name string

	mu    sync.Mutex
	buf   *memfile.File
	live  mapset.Set[PageNumber]
	freed *stack.Stack
	next  PageNumber
	stats FileStats
}

func NewMemFile(name string) *MemFile {
	return &MemFile{
		name:  name,
		buf:   memfile.New(make([]byte, 0)),
		live:  mapset.NewThreadUnsafeSet[PageNumber](),
		freed: stack.New(),
		next:  1,
	}
}

func (m *MemFile) ID() FileID { return FileID("mem://" + m.name) }

func (m *MemFile) Filename() string { return m.name }

func (m *MemFile) ReadPage(pageNo PageNumber) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Reads++
	if !m.live.Contains(pageNo) {
		return nil, fmt.Errorf("read page %d of %s: %w", pageNo, m.name, ErrInvalidPage)
	}
	p := &Page{Buf: make([]byte, PageSize)}
	if _, err := m.buf.ReadAt(p.Buf, offsetOf(pageNo)); err != nil {
		return nil, fmt.Errorf("read page %d of %s: %w", pageNo, m.name, err)
	}
	return p, nil
}

func (m *MemFile) WritePage(p *Page) error {
	if len(p.Buf) != PageSize {
		return ErrWrongSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Writes++
	pageNo := p.PageNumber()
	if !m.live.Contains(pageNo) {
		return fmt.Errorf("write page %d of %s: %w", pageNo, m.name, ErrInvalidPage)
	}
	_, err := m.buf.WriteAt(p.Buf, offsetOf(pageNo))
	return err
}

func (m *MemFile) AllocatePage() (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Allocs++
	pageNo := m.next
	if v := m.freed.Pop(); v != nil {
		pageNo = v.(PageNumber)
	} else {
		m.next++
	}

	p := NewPage(pageNo)
	if _, err := m.buf.WriteAt(p.Buf, offsetOf(pageNo)); err != nil {
		return nil, fmt.Errorf("allocate page %d of %s: %w", pageNo, m.name, err)
	}
	m.live.Add(pageNo)
	return p, nil
}

func (m *MemFile) DeletePage(pageNo PageNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Deletes++
	if !m.live.Contains(pageNo) {
		return fmt.Errorf("delete page %d of %s: %w", pageNo, m.name, ErrInvalidPage)
	}
	if _, err := m.buf.WriteAt(make([]byte, PageSize), offsetOf(pageNo)); err != nil {
		return err
	}
	m.live.Remove(pageNo)
	m.freed.Push(pageNo)
	return nil
}

func (m *MemFile) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Closes++
	return nil
}

// Exists reports whether pageNo is currently allocated.
func (m *MemFile) Exists(pageNo PageNumber) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live.Contains(pageNo)
}

func (m *MemFile) Stats() FileStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func offsetOf(pageNo PageNumber) int64 {
	return (int64(pageNo) - 1) * PageSize
}
