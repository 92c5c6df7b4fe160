package main

// #include "commsbridge.h"
import "C"

import (
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/commsbridge"
	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/config"
	"github.com/opd-ai/commsbridge/sdk/loopback"
)

func main() {} // Required for c-shared build mode

// bridge is the single process-wide session.
var bridge *commsbridge.Bridge

func init() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "init",
			"error":    err.Error(),
		}).Warn("Invalid environment configuration, using defaults")
		cfg = config.Defaults()
	}
	if err := cfg.ConfigureLogging(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "init",
			"error":    err.Error(),
		}).Warn("Failed to configure logging")
	}
	if err := checkLayout(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "init",
			"error":    err.Error(),
		}).Error("C record layout does not match Go records")
	}

	bridge = commsbridge.New(
		loopback.Factory(cfg.LoopbackOptions()...),
		commsbridge.WithAllocator(cAllocator{}),
	)
}

// cAllocator hands out malloc memory so the caller can release it with free.
type cAllocator struct{}

func (cAllocator) Alloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}
	return C.commsbridge_malloc(C.size_t(size))
}

func (cAllocator) Free(p unsafe.Pointer) {
	C.free(p)
}

var _ abi.Allocator = cAllocator{}

// key widens the caller's 32-bit handler identity.
func key(hash C.int32_t) uint64 {
	return uint64(uint32(hash))
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

func cString(s abi.Str) *C.char {
	return (*C.char)(s.Ptr())
}

// newCString copies s into malloc memory owned by the caller.
func newCString(s string) *C.char {
	return C.CString(s)
}

func vector(x, y, z C.float) abi.Vector3 {
	return abi.Vector3{X: float32(x), Y: float32(y), Z: float32(z)}
}
