package bufferpool

import (
	"fmt"

	"github.com/tuannm99/novabuf/internal/storage"
)

// FrameID addresses one slot of the pool.
type FrameID int

// frameDesc is the bookkeeping for one frame.
// Invariant: !valid => pinCnt == 0 && !dirty.
type frameDesc struct {
	frameNo FrameID
	file    storage.File
	fileID  storage.FileID
	pageNo  storage.PageNumber
	pinCnt  int32
	dirty   bool
	valid   bool
	refBit  bool

	// gen changes on every claim and reset; handles compare against it.
	gen uint64
}

// set claims the frame for (file, pageNo) with a single pin.
func (d *frameDesc) set(file storage.File, pageNo storage.PageNumber) {
	d.file = file
	d.fileID = file.ID()
	d.pageNo = pageNo
	d.pinCnt = 1
	d.dirty = false
	d.valid = true
	d.refBit = true
	d.gen++
}

// clear returns the frame to the empty state.
func (d *frameDesc) clear() {
	d.file = nil
	d.fileID = ""
	d.pageNo = storage.InvalidPageNumber
	d.pinCnt = 0
	d.dirty = false
	d.valid = false
	d.refBit = false
	d.gen++
}

func (d *frameDesc) key() pageKey {
	return pageKey{file: d.fileID, page: d.pageNo}
}

func (d *frameDesc) String() string {
	name := "-"
	if d.file != nil {
		name = d.file.Filename()
	}
	return fmt.Sprintf("file:%s pageNo:%d valid:%t pinCnt:%d dirty:%t refbit:%t",
		name, d.pageNo, d.valid, d.pinCnt, d.dirty, d.refBit)
}
