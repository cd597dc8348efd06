// Package bufpool recycles the buffers that archives are packaged into
// when one run compiles several sources.
package bufpool

import (
	"bytes"
	"sync"
)

// DefaultMaxSize is the capacity past which a buffer is not recycled.
const DefaultMaxSize = 64 << 20

type Pool struct {
	p   sync.Pool
	max int
}

func New(max int) *Pool {
	if max <= 0 {
		max = DefaultMaxSize
	}
	p := &Pool{max: max}
	p.p.New = func() interface{} {
		return &Buffer{pool: p}
	}
	return p
}

// Get returns an empty buffer. Close hands it back.
func (p *Pool) Get() *Buffer {
	return p.p.Get().(*Buffer)
}

type Buffer struct {
	bytes.Buffer
	pool *Pool
}

// Close resets the buffer and returns it to its pool, unless it grew past
// the max size of the pool. The bytes of the buffer must not be used after.
func (b *Buffer) Close() error {
	if b.Cap() > b.pool.max {
		return nil
	}
	b.Reset()
	b.pool.p.Put(b)
	return nil
}
