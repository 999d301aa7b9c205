package native

import (
	"fmt"
	"unsafe"
)

// This file is the unsafe boundary for raw-memory dispatch. Nothing outside
// it reinterprets native pointers.

const ptrSize = unsafe.Sizeof(uintptr(0))

// vtableSlot reads the function pointer at the given slot of an interface
// object's vtable. iface must point to an object whose first word is the
// vtable pointer, the layout every Steam client interface uses. tableLen
// bounds the assumed table size so that a bad slot map fails loudly here
// instead of dereferencing arbitrary memory.
func vtableSlot(iface uintptr, slot, tableLen int) (uintptr, error) {
	if iface == 0 {
		return 0, fmt.Errorf("%w: nil interface pointer", ErrInterfaceResolution)
	}
	if slot < 0 || slot >= tableLen {
		return 0, fmt.Errorf("%w: slot %d outside assumed table of %d entries",
			ErrInterfaceResolution, slot, tableLen)
	}

	vtbl := *(*uintptr)(unsafe.Pointer(iface)) //nolint:govet // native object layout
	if vtbl == 0 {
		return 0, fmt.Errorf("%w: object has no vtable", ErrInterfaceResolution)
	}

	fn := *(*uintptr)(unsafe.Pointer(vtbl + uintptr(slot)*ptrSize)) //nolint:govet
	if fn == 0 {
		return 0, fmt.Errorf("%w: null entry at slot %d", ErrInterfaceResolution, slot)
	}

	return fn, nil
}

// cstr returns the address of a NUL-terminated copy of s, plus the backing
// slice. The caller must keep the slice reachable (runtime.KeepAlive) until
// the native call returns.
func cstr(s string) (uintptr, []byte) {
	buf := append([]byte(s), 0)
	return uintptr(unsafe.Pointer(&buf[0])), buf
}

// byteOut returns the address of b for use as a native out-parameter.
func byteOut(b *byte) uintptr {
	return uintptr(unsafe.Pointer(b))
}
