// Package data implements the literal data pool (§3, §4): an immutable,
// index-addressed store of byte blobs populated from the parsed program's
// .datas declarations before execution.
package data

import "github.com/mmyjona/cvm/errs"

// Index identifies a blob in a Pool.
type Index uint64

// Pool holds the program's literal data blobs, keyed by the numeric
// `#<index>` the source program assigns them. The zero value is ready to
// use; once handed to a runtime environment it is treated as read-only.
type Pool struct {
	blobs map[Index][]byte
}

// NewPool creates an empty data pool.
func NewPool() *Pool {
	return &Pool{blobs: make(map[Index][]byte)}
}

// Insert adds a blob at idx. Re-inserting an existing index reports
// ErrDuplicateDataIndex.
func (p *Pool) Insert(idx Index, blob []byte) error {
	if _, ok := p.blobs[idx]; ok {
		return errs.ErrDuplicateDataIndex
	}
	if p.blobs == nil {
		p.blobs = make(map[Index][]byte)
	}
	p.blobs[idx] = blob
	return nil
}

// Get returns the blob at idx.
func (p *Pool) Get(idx Index) ([]byte, bool) {
	b, ok := p.blobs[idx]
	return b, ok
}

// Len reports how many blobs are registered.
func (p *Pool) Len() int {
	return len(p.blobs)
}
