package bufferpool

import "github.com/tuannm99/novabuf/internal/storage"

// FileView binds a Manager to a single file so callers working on one
// relation do not have to pass it around.
type FileView struct {
	m BufferPool
	f storage.File
}

func NewFileView(bp BufferPool, f storage.File) *FileView {
	return &FileView{m: bp, f: f}
}

// View returns a file-scoped view backed by the shared Manager.
func (m *Manager) View(f storage.File) *FileView {
	return NewFileView(m, f)
}

func (v *FileView) File() storage.File { return v.f }

func (v *FileView) ReadPage(pageNo storage.PageNumber) (*PageHandle, error) {
	return v.m.ReadPage(v.f, pageNo)
}

func (v *FileView) AllocPage() (storage.PageNumber, *PageHandle, error) {
	return v.m.AllocPage(v.f)
}

func (v *FileView) UnpinPage(pageNo storage.PageNumber, dirty bool) error {
	return v.m.UnpinPage(v.f, pageNo, dirty)
}

// Flush flushes and evicts pages for THIS file only.
func (v *FileView) Flush() error {
	return v.m.FlushFile(v.f)
}

func (v *FileView) DisposePage(pageNo storage.PageNumber) error {
	return v.m.DisposePage(v.f, pageNo)
}
