package bufferpool

import "github.com/tuannm99/novabuf/internal/storage"

// BufferPool is the page access API offered to higher layers.
type BufferPool interface {
	ReadPage(f storage.File, pageNo storage.PageNumber) (*PageHandle, error)
	AllocPage(f storage.File) (storage.PageNumber, *PageHandle, error)
	UnpinPage(f storage.File, pageNo storage.PageNumber, dirty bool) error
	FlushFile(f storage.File) error
	DisposePage(f storage.File, pageNo storage.PageNumber) error
}

var _ BufferPool = (*Manager)(nil)
