package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var _ File = (*LocalFile)(nil)

// LocalFile stores pages in a local directory as segment files:
// Base, Base.1, Base.2, ... Page N lives at slot N-1.
type LocalFile struct {
	Dir  string
	Base string

	id       FileID
	mu       sync.Mutex
	segs     map[int32]*os.File // open segment handles, released by Close
	numPages uint32             // highest page number ever allocated
}

// OpenLocalFile opens (or creates) the file Dir/Base and counts its pages.
func OpenLocalFile(dir, base string) (*LocalFile, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, FileMode0755); err != nil {
		return nil, fmt.Errorf("open local file: %w", err)
	}
	lf := &LocalFile{
		Dir:  dir,
		Base: base,
		id:   NewFileID(filepath.Join(dir, base)),
		segs: make(map[int32]*os.File),
	}
	n, err := lf.countPages()
	if err != nil {
		return nil, fmt.Errorf("open local file: %w", err)
	}
	lf.numPages = n
	return lf, nil
}

func (lf *LocalFile) ID() FileID { return lf.id }

func (lf *LocalFile) Filename() string { return filepath.Join(lf.Dir, lf.Base) }

// NumPages returns the highest allocated page number, deleted pages included.
func (lf *LocalFile) NumPages() uint32 {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	return lf.numPages
}

func (lf *LocalFile) ReadPage(pageNo PageNumber) (*Page, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if !lf.inRange(pageNo) {
		return nil, fmt.Errorf("read page %d of %s: %w", pageNo, lf.Base, ErrInvalidPage)
	}
	p := &Page{Buf: make([]byte, PageSize)}
	if err := lf.readAt(pageNo, p.Buf); err != nil {
		return nil, err
	}
	// Deleted pages are zeroed on disk, so their header no longer matches.
	if p.PageNumber() != pageNo {
		return nil, fmt.Errorf("read page %d of %s: %w", pageNo, lf.Base, ErrInvalidPage)
	}
	return p, nil
}

func (lf *LocalFile) WritePage(p *Page) error {
	if len(p.Buf) != PageSize {
		return ErrWrongSize
	}
	lf.mu.Lock()
	defer lf.mu.Unlock()

	pageNo := p.PageNumber()
	if !lf.inRange(pageNo) {
		return fmt.Errorf("write page %d of %s: %w", pageNo, lf.Base, ErrInvalidPage)
	}
	return lf.writeAt(pageNo, p.Buf)
}

func (lf *LocalFile) AllocatePage() (*Page, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	pageNo := PageNumber(lf.numPages + 1)
	p := NewPage(pageNo)
	if err := lf.writeAt(pageNo, p.Buf); err != nil {
		return nil, fmt.Errorf("allocate page %d of %s: %w", pageNo, lf.Base, err)
	}
	lf.numPages++
	return p, nil
}

func (lf *LocalFile) DeletePage(pageNo PageNumber) error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if !lf.inRange(pageNo) {
		return fmt.Errorf("delete page %d of %s: %w", pageNo, lf.Base, ErrInvalidPage)
	}
	return lf.writeAt(pageNo, make([]byte, PageSize))
}

// Close closes every cached segment handle.
func (lf *LocalFile) Close() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	var err error
	for segNo, f := range lf.segs {
		if e := f.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("close segment %d: %w", segNo, e))
		}
		delete(lf.segs, segNo)
	}
	return err
}

// Remove closes the file and deletes all of its segments.
func (lf *LocalFile) Remove() error {
	if err := lf.Close(); err != nil {
		return err
	}
	lf.mu.Lock()
	defer lf.mu.Unlock()

	segs, err := lf.listSegments()
	if err != nil {
		return err
	}
	for _, segNo := range segs {
		path := filepath.Join(lf.Dir, SegFileName(lf.Base, segNo))
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	lf.numPages = 0
	return nil
}

func (lf *LocalFile) inRange(pageNo PageNumber) bool {
	return pageNo != InvalidPageNumber && uint32(pageNo) <= lf.numPages
}

func locate(pageNo PageNumber) (segNo int32, offset int64) {
	slot := int64(pageNo) - 1
	segNo = int32(slot / MaxPagePerSegment)
	offset = (slot % MaxPagePerSegment) * PageSize
	return segNo, offset
}

func (lf *LocalFile) segment(segNo int32) (*os.File, error) {
	if f, ok := lf.segs[segNo]; ok {
		return f, nil
	}
	path := filepath.Join(lf.Dir, SegFileName(lf.Base, segNo))
	// RDWR | CREATE (no truncate)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileMode0644)
	if err != nil {
		return nil, err
	}
	lf.segs[segNo] = f
	return f, nil
}

func (lf *LocalFile) readAt(pageNo PageNumber, dst []byte) error {
	segNo, off := locate(pageNo)
	f, err := lf.segment(segNo)
	if err != nil {
		return err
	}
	n, err := f.ReadAt(dst, off)
	if err != nil && err != io.EOF {
		return err
	}
	// Zero-fill a short read so a truncated tail reads as a deleted page.
	clear(dst[n:])
	return nil
}

func (lf *LocalFile) writeAt(pageNo PageNumber, src []byte) error {
	segNo, off := locate(pageNo)
	f, err := lf.segment(segNo)
	if err != nil {
		return err
	}
	n, err := f.WriteAt(src, off)
	if err != nil {
		return err
	}
	if n != PageSize {
		return io.ErrShortWrite
	}
	return nil
}

// countPages derives the page count from segment sizes. All segments but the
// last are full, so the last segment's size determines the tail.
func (lf *LocalFile) countPages() (uint32, error) {
	segs, err := lf.listSegments()
	if err != nil {
		return 0, err
	}
	if len(segs) == 0 {
		return 0, nil
	}
	last := segs[len(segs)-1]
	info, err := os.Stat(filepath.Join(lf.Dir, SegFileName(lf.Base, last)))
	if err != nil {
		return 0, err
	}
	return uint32(int64(last)*MaxPagePerSegment + info.Size()/PageSize), nil
}

// SegFileName returns segment file name:
//   - seg 0: base
//   - seg N>0: base.N
func SegFileName(base string, segNo int32) string {
	if segNo <= 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, segNo)
}

// listSegments scans Dir and returns all segment numbers for Base.
// It matches: Base and Base.<int>.
func (lf *LocalFile) listSegments() ([]int32, error) {
	ents, err := os.ReadDir(lf.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	segs := make([]int32, 0)
	prefix := lf.Base + "."

	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == lf.Base {
			segs = append(segs, 0)
			continue
		}
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		n64, err := strconv.ParseInt(strings.TrimPrefix(name, prefix), 10, 32)
		if err != nil || n64 <= 0 {
			continue
		}
		segs = append(segs, int32(n64))
	}

	sort.Slice(segs, func(i, j int) bool { return segs[i] < segs[j] })
	return segs, nil
}
