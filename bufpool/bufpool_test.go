package bufpool_test

import (
	"io"
	"testing"

	"github.com/scratchlang/slc/bufpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIsEmpty(t *testing.T) {
	p := bufpool.New(0)
	for i := 0; i < 3; i++ {
		b := p.Get()
		assert.Zero(t, b.Len())
		b.WriteString("archive")
		require.NoError(t, b.Close())
	}
}

func TestOversizedBuffersAreDropped(t *testing.T) {
	p := bufpool.New(16)
	b := p.Get()
	b.Write(make([]byte, 1024))
	require.NoError(t, b.Close())
	// an oversized buffer keeps its content, it is left to the collector
	assert.Equal(t, 1024, b.Len())
}

func TestBufferIsCloser(t *testing.T) {
	var c io.Closer = bufpool.New(0).Get()
	assert.NoError(t, c.Close())
}
