package storage

import (
	"errors"
)

const (
	OneKB = 1 << 10 // 1,024
	OneGB = 1 << 30 // 1,073,741,824

	SegmentSize       = 1 << 30                // 1 GiB
	PageSize          = 1 << 13                // 8 KiB
	MaxPagePerSegment = SegmentSize / PageSize // 131,072 pages/segment
	HeaderSize        = 8                      // page number (4) + reserved (4)
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrInvalidPage = errors.New("storage: page does not exist in file")
	ErrWrongSize   = errors.New("storage: buffer size != PageSize")
)
