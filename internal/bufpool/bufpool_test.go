package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSizeBuckets(t *testing.T) {
	tests := []struct {
		name        string
		requestSize int
		expectCap   int
	}{
		{"4KB bucket - exact", 4 * 1024, 4 * 1024},
		{"4KB bucket - smaller", 100, 4 * 1024},
		{"16KB bucket - exact", 16 * 1024, 16 * 1024},
		{"16KB bucket - smaller", 10 * 1024, 16 * 1024},
		{"64KB bucket - exact", 64 * 1024, 64 * 1024},
		{"256KB bucket - exact", 256 * 1024, 256 * 1024},
		{"256KB bucket - smaller", 200 * 1024, 256 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Get(tt.requestSize)
			assert.Len(t, buf, tt.requestSize)
			assert.Equal(t, tt.expectCap, cap(buf))
			Put(buf)
		})
	}
}

func TestPutNonStandardCapacityDoesNotPanic(t *testing.T) {
	buf := make([]byte, 100*1024)
	assert.NotPanics(t, func() { Put(buf) })
}

func TestGetThenPutReusesBucket(t *testing.T) {
	a := Get(4 * 1024)
	Put(a)
	b := Get(4 * 1024)
	assert.Equal(t, cap(a), cap(b))
	Put(b)
}
