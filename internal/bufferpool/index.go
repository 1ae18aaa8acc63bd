package bufferpool

import (
	"github.com/spaolacci/murmur3"

	"github.com/tuannm99/novabuf/internal/alias/bx"
	"github.com/tuannm99/novabuf/internal/storage"
)

// pageKey uniquely identifies a page across files.
type pageKey struct {
	file storage.FileID
	page storage.PageNumber
}

// hashTableSize returns about 1.2x the frame count, forced odd.
func hashTableSize(numBufs int) int {
	return ((numBufs * 6 / 5) &^ 1) + 1
}

type indexEntry struct {
	key   pageKey
	frame FrameID
	next  *indexEntry
}

// frameIndex maps resident pages to their frames. A miss is a plain false,
// not an error: it is the common path on every cold read.
type frameIndex struct {
	buckets []*indexEntry
	n       int
}

func newFrameIndex(numBufs int) *frameIndex {
	return &frameIndex{buckets: make([]*indexEntry, hashTableSize(numBufs))}
}

func (ix *frameIndex) bucket(k pageKey) int {
	buf := make([]byte, 0, len(k.file)+4)
	buf = append(buf, k.file...)
	buf = bx.AppendU32(buf, uint32(k.page))
	return int(murmur3.Sum32(buf) % uint32(len(ix.buckets)))
}

func (ix *frameIndex) insert(k pageKey, frame FrameID) error {
	b := ix.bucket(k)
	for e := ix.buckets[b]; e != nil; e = e.next {
		if e.key == k {
			return errDuplicateEntry
		}
	}
	ix.buckets[b] = &indexEntry{key: k, frame: frame, next: ix.buckets[b]}
	ix.n++
	return nil
}

func (ix *frameIndex) lookup(k pageKey) (FrameID, bool) {
	for e := ix.buckets[ix.bucket(k)]; e != nil; e = e.next {
		if e.key == k {
			return e.frame, true
		}
	}
	return -1, false
}

func (ix *frameIndex) remove(k pageKey) bool {
	b := ix.bucket(k)
	for link := &ix.buckets[b]; *link != nil; link = &(*link).next {
		if (*link).key == k {
			*link = (*link).next
			ix.n--
			return true
		}
	}
	return false
}

func (ix *frameIndex) len() int { return ix.n }
