package hal

import "testing"

func TestPageAllocatorHandsOutLowestFreePage(t *testing.T) {
	a := NewPageAllocator(3)

	first, ok := a.AllocPage()
	if !ok || first != LowMemory {
		t.Fatalf("AllocPage() = 0x%x, %v, want 0x%x, true", first, ok, LowMemory)
	}
	second, _ := a.AllocPage()
	if second != LowMemory+PageSize {
		t.Fatalf("AllocPage() = 0x%x, want 0x%x", second, LowMemory+PageSize)
	}
	if got := a.Available(); got != 1 {
		t.Fatalf("Available() = %d, want 1", got)
	}

	if !a.Free(first) {
		t.Fatal("Free(first) = false, want true")
	}
	again, _ := a.AllocPage()
	if again != first {
		t.Fatalf("AllocPage() after Free = 0x%x, want 0x%x", again, first)
	}
}

func TestPageAllocatorOutOfMemory(t *testing.T) {
	a := NewPageAllocator(1)
	if _, ok := a.AllocPage(); !ok {
		t.Fatal("AllocPage() ok = false, want true")
	}
	if base, ok := a.AllocPage(); ok {
		t.Fatalf("AllocPage() = 0x%x, true on exhausted allocator", base)
	}
}

func TestPageAllocatorZeroFills(t *testing.T) {
	a := NewPageAllocator(1)
	base, _ := a.AllocPage()
	page := a.Bytes(base)
	if len(page) != PageSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(page), PageSize)
	}
	for i := range page {
		page[i] = 0xAA
	}
	a.Free(base)

	base, _ = a.AllocPage()
	for i, b := range a.Bytes(base) {
		if b != 0 {
			t.Fatalf("byte %d = 0x%x after realloc, want 0", i, b)
		}
	}
}

func TestPageAllocatorRejectsForeignAddresses(t *testing.T) {
	a := NewPageAllocator(2)
	base, _ := a.AllocPage()

	for _, addr := range []uintptr{0, base + 1, LowMemory + 2*PageSize, LowMemory + PageSize} {
		if a.Free(addr) {
			t.Fatalf("Free(0x%x) = true, want false", addr)
		}
		if a.Bytes(addr) != nil {
			t.Fatalf("Bytes(0x%x) != nil", addr)
		}
	}
}
