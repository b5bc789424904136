package arch

import "runtime"

// Poller takes pending interrupts on the running task.
type Poller interface {
	Service() bool
}

// Delay spins for n iterations, taking pending interrupts between them. It is
// the only point at which a busy task can be preempted.
func Delay(irq Poller, n int) {
	for i := 0; i < n; i++ {
		if irq != nil {
			irq.Service()
		}
		runtime.Gosched()
	}
}
