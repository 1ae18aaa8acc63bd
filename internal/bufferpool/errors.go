package bufferpool

import (
	"errors"
	"fmt"

	"github.com/tuannm99/novabuf/internal/storage"
)

var (
	ErrCapacityExceeded = errors.New("bufferpool: no free frame available (all pinned)")
	ErrPageNotPinned    = errors.New("bufferpool: page is not pinned")
	ErrPagePinned       = errors.New("bufferpool: page is pinned")
	ErrBadBuffer        = errors.New("bufferpool: frame owned by file is not valid")
	ErrStaleHandle      = errors.New("bufferpool: page handle used after release")
	ErrInvalidPoolSize  = errors.New("bufferpool: invalid pool size")
	ErrManagerClosed    = errors.New("bufferpool: manager is closed")

	// ErrInvalidPage is returned when the file has no such page.
	ErrInvalidPage = storage.ErrInvalidPage

	errDuplicateEntry = errors.New("bufferpool: page already indexed")
)

// PageError ties a failure to the page and frame it happened on.
type PageError struct {
	Op    string
	File  string
	Page  storage.PageNumber
	Frame FrameID
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s: file %s page %d frame %d: %v", e.Op, e.File, e.Page, e.Frame, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// BadBufferError reports a frame whose state contradicts its ownership.
// It signals a bug in the manager, not a recoverable condition.
type BadBufferError struct {
	Frame  FrameID
	Dirty  bool
	Valid  bool
	RefBit bool
}

func (e *BadBufferError) Error() string {
	return fmt.Sprintf("bufferpool: bad buffer: frame %d dirty=%t valid=%t refbit=%t",
		e.Frame, e.Dirty, e.Valid, e.RefBit)
}

func (e *BadBufferError) Is(target error) bool { return target == ErrBadBuffer }
