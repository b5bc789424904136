package hal

import "testing"

func TestIRQStartsMasked(t *testing.T) {
	c := NewIRQ()
	calls := 0
	c.SetHandler(func() { calls++ })

	c.Raise()
	if c.Service() {
		t.Fatal("Service() = true while masked, want false")
	}
	if calls != 0 {
		t.Fatalf("handler calls = %d, want 0", calls)
	}

	c.Enable()
	if !c.Service() {
		t.Fatal("Service() = false after Enable, want true")
	}
	if calls != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
}

func TestIRQHandlerRunsMasked(t *testing.T) {
	c := NewIRQ()
	var enabledInHandler bool
	c.SetHandler(func() { enabledInHandler = c.Enabled() })
	c.Enable()
	c.Raise()

	c.Service()

	if enabledInHandler {
		t.Fatal("handler ran with the line unmasked")
	}
	if !c.Enabled() {
		t.Fatal("line still masked after the handler returned")
	}
}

func TestIRQNestedServiceIsRefused(t *testing.T) {
	c := NewIRQ()
	var nested bool
	c.SetHandler(func() {
		c.Raise()
		nested = c.Service()
	})
	c.Enable()
	c.Raise()

	c.Service()

	if nested {
		t.Fatal("interrupt taken inside its own handler")
	}
	if !c.Service() {
		t.Fatal("pending interrupt raised in the handler was lost")
	}
}

func TestIRQCoalescesPendingTicks(t *testing.T) {
	c := NewIRQ()
	calls := 0
	c.SetHandler(func() { calls++ })
	for i := 0; i < 5; i++ {
		c.Raise()
	}
	c.Enable()

	for c.Service() {
	}

	if calls != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
	raised, taken := c.Counts()
	if raised != 5 || taken != 1 {
		t.Fatalf("Counts() = %d, %d, want 5, 1", raised, taken)
	}
}
