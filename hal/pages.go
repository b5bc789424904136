package hal

import "sync"

const (
	PageShift    = 12
	TableShift   = 9
	SectionShift = PageShift + TableShift
	PageSize     = 1 << PageShift
	SectionSize  = 1 << SectionShift

	// LowMemory is the first allocatable physical address; the kernel image
	// and boot stacks live below it.
	LowMemory = 2 * SectionSize
)

// PageAllocator hands out pages from a contiguous physical range starting at
// LowMemory. Page contents are backed by host memory so they can be zeroed
// and inspected.
type PageAllocator struct {
	mu   sync.Mutex
	used []bool
	mem  []byte
	free int
}

// NewPageAllocator returns an allocator managing n pages.
func NewPageAllocator(n int) *PageAllocator {
	if n < 0 {
		n = 0
	}
	return &PageAllocator{
		used: make([]bool, n),
		mem:  make([]byte, n*PageSize),
		free: n,
	}
}

// AllocPage returns the base address of the lowest free page, zero-filled.
func (a *PageAllocator) AllocPage() (uintptr, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, inUse := range a.used {
		if inUse {
			continue
		}
		a.used[i] = true
		a.free--
		page := a.mem[i*PageSize : (i+1)*PageSize]
		for j := range page {
			page[j] = 0
		}
		return LowMemory + uintptr(i)*PageSize, true
	}
	return 0, false
}

// Free returns a page to the allocator. It reports false for addresses that
// are not an allocated page base.
func (a *PageAllocator) Free(base uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, ok := a.index(base)
	if !ok || !a.used[i] {
		return false
	}
	a.used[i] = false
	a.free++
	return true
}

// Bytes returns the memory of the allocated page at base, or nil.
func (a *PageAllocator) Bytes(base uintptr) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, ok := a.index(base)
	if !ok || !a.used[i] {
		return nil
	}
	return a.mem[i*PageSize : (i+1)*PageSize]
}

// Available returns the number of free pages.
func (a *PageAllocator) Available() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.free
}

func (a *PageAllocator) index(base uintptr) (int, bool) {
	if base < LowMemory || (base-LowMemory)%PageSize != 0 {
		return 0, false
	}
	i := int((base - LowMemory) / PageSize)
	if i >= len(a.used) {
		return 0, false
	}
	return i, true
}
