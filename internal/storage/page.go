package storage

import (
	"fmt"

	"github.com/tuannm99/novabuf/internal/alias/bx"
)

// PageNumber identifies a page inside one file. Numbering starts at 1.
type PageNumber uint32

// InvalidPageNumber marks "no page": an empty frame or a deleted on-disk slot.
const InvalidPageNumber PageNumber = 0

// Header offsets
const (
	offPageNo = 0
)

// +------------------+ 0
// | page number (4)  |
// | reserved    (4)  |
// +------------------+ HeaderSize
// |                  |
// |   Data           |
// |                  |
// +------------------+ PageSize (8192)
type Page struct {
	Buf []byte // fixed-size 8KB
}

// NewPage returns a zeroed page stamped with pageNo.
func NewPage(pageNo PageNumber) *Page {
	p := &Page{Buf: make([]byte, PageSize)}
	p.SetPageNumber(pageNo)
	return p
}

// WrapPage wraps an existing PageSize buffer without touching its contents.
func WrapPage(buf []byte) (*Page, error) {
	if len(buf) != PageSize {
		return nil, ErrWrongSize
	}
	return &Page{Buf: buf}, nil
}

func (p *Page) PageNumber() PageNumber {
	return PageNumber(bx.U32At(p.Buf, offPageNo))
}

func (p *Page) SetPageNumber(v PageNumber) {
	bx.PutU32At(p.Buf, offPageNo, uint32(v))
}

// IsValid reports whether the page carries a real page number.
func (p *Page) IsValid() bool {
	return p.PageNumber() != InvalidPageNumber
}

// Data is the payload area after the header.
func (p *Page) Data() []byte {
	return p.Buf[HeaderSize:]
}

// CopyFrom overwrites p in place with src, header included.
func (p *Page) CopyFrom(src *Page) {
	copy(p.Buf, src.Buf)
}

// Reset zeroes the whole buffer, leaving an invalid page.
func (p *Page) Reset() {
	clear(p.Buf)
}

func (p *Page) String() string {
	return fmt.Sprintf("Page{no=%d}", p.PageNumber())
}
