//go:build cgo && libzstd

package zstdbench

// #cgo pkg-config: libzstd
//
// #include <zstd.h>
// #include <zstd_errors.h>
//
// #include <stdint.h>  // for uintptr_t
//
// // The following *_wrapper functions allow avoiding memory allocations
// // durting calls from Go.
// // See https://github.com/golang/go/issues/24450 .
//
// static size_t ZSTD_compressCCtx_wrapper(ZSTD_CCtx* ctx, uintptr_t dst, size_t dstCapacity, uintptr_t src, size_t srcSize, int compressionLevel) {
//     return ZSTD_compressCCtx(ctx, (void*)dst, dstCapacity, (const void*)src, srcSize, compressionLevel);
// }
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"
)

func init() {
	RegisterCompressor("libzstd", func() (Compressor, error) {
		return NewLibzstdCompressor()
	})
}

// LibzstdCompressor calls the system libzstd directly with a single
// compression context.
//
// It must be used from one goroutine at a time.
type LibzstdCompressor struct {
	cctx *C.ZSTD_CCtx
}

// NewLibzstdCompressor allocates a compression context.
func NewLibzstdCompressor() (*LibzstdCompressor, error) {
	cctx := C.ZSTD_createCCtx()
	if cctx == nil {
		return nil, &AllocationError{What: "zstd compression context"}
	}
	lc := &LibzstdCompressor{
		cctx: cctx,
	}
	runtime.SetFinalizer(lc, freeLibzstdCompressor)
	return lc, nil
}

func freeLibzstdCompressor(lc *LibzstdCompressor) {
	lc.Close()
}

// Close releases the compression context.
func (lc *LibzstdCompressor) Close() error {
	if lc.cctx != nil {
		C.ZSTD_freeCCtx(lc.cctx)
		lc.cctx = nil
	}
	return nil
}

// Name implements Compressor.
func (lc *LibzstdCompressor) Name() string {
	return "libzstd"
}

// LevelRange implements Compressor.
func (lc *LibzstdCompressor) LevelRange() (int, int) {
	return int(C.ZSTD_minCLevel()), int(C.ZSTD_maxCLevel())
}

// CompressBound implements Compressor.
func (lc *LibzstdCompressor) CompressBound(srcSize int) int {
	return int(C.ZSTD_compressBound(C.size_t(srcSize)))
}

// Compress implements Compressor.
func (lc *LibzstdCompressor) Compress(dst, src []byte, level int) (int, error) {
	if err := checkLevel(lc, level); err != nil {
		return 0, err
	}
	if bound := lc.CompressBound(len(src)); len(dst) < bound {
		return 0, dstTooSmall(level, len(dst), bound)
	}

	dstPtr := C.uintptr_t(uintptr(unsafe.Pointer(&dst[0])))
	var srcPtr C.uintptr_t
	if len(src) > 0 {
		srcPtr = C.uintptr_t(uintptr(unsafe.Pointer(&src[0])))
	}
	result := C.ZSTD_compressCCtx_wrapper(lc.cctx, dstPtr, C.size_t(len(dst)), srcPtr, C.size_t(len(src)), C.int(level))
	runtime.KeepAlive(dst)
	runtime.KeepAlive(src)

	if C.ZSTD_isError(result) != 0 {
		return 0, &LevelError{
			Level: level,
			Name:  errStr(result),
			Err:   fmt.Errorf("ZSTD_compressCCtx failed with code %d", int(C.ZSTD_getErrorCode(result))),
		}
	}
	return int(result), nil
}

func errStr(result C.size_t) string {
	return C.GoString(C.ZSTD_getErrorName(result))
}
