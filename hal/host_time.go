//go:build !tinygo

package hal

type hostTime struct {
	ch  chan uint64
	seq uint64
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step emits one tick. Ticks are dropped while the consumer lags by more than
// the channel capacity.
func (t *hostTime) step() {
	t.seq++
	select {
	case t.ch <- t.seq:
	default:
	}
}
