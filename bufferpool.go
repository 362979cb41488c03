package zstdbench

import (
	"sync"
)

// dstBufPool holds destination buffers between sweeps. A sweep over a
// large workload needs a buffer of CompressBound(size) bytes, so it is
// worth keeping one around for the next sweep.
var dstBufPool sync.Pool

// getDstBuf returns a buffer with len n. Its content is undefined.
func getDstBuf(n int) []byte {
	v := dstBufPool.Get()
	if v != nil {
		bp := v.(*[]byte)
		if cap(*bp) >= n {
			return (*bp)[:n]
		}
	}
	return make([]byte, n)
}

func putDstBuf(b []byte) {
	if b == nil {
		return
	}
	dstBufPool.Put(&b)
}
