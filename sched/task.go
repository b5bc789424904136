package sched

const (
	// NumTasks is the capacity of the task table.
	NumTasks = 64

	// PageSize is the size of the page backing each task's stack.
	PageSize = 4096

	initPriority = 1
)

// State is a task's scheduling eligibility.
type State uint8

const (
	StateRunnable State = iota
	// StateTerminated is reserved for slot reclamation; no code path enters it yet.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunnable:
		return "runnable"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// CPUContext is the callee-saved register set of a suspended task.
//
// Only the context-switch primitive writes it after the task is created.
type CPUContext struct {
	X19 uint64
	X20 uint64
	X21 uint64
	X22 uint64
	X23 uint64
	X24 uint64
	X25 uint64
	X26 uint64
	X27 uint64
	X28 uint64
	FP  uint64
	SP  uint64
	PC  uint64
}

// FPSIMDContext holds the vector register file. The scheduler never saves or
// restores it.
type FPSIMDContext struct {
	V    [32][2]uint64
	FPSR uint32
	FPCR uint32
}

// Task is a task control block.
type Task struct {
	CPU    CPUContext
	FPSIMD FPSIMDContext

	State        State
	Counter      int64
	Priority     int64
	PreemptCount uint64

	// Page is the base address of the page the task's stack lives in.
	// It is 0 for the init task, which runs on the boot stack.
	Page uintptr
}

// Handle identifies a slot in the task table.
type Handle uint8

// NoHandle is returned when no slot could be assigned.
const NoHandle Handle = 0xFF

// TaskInfo is a point-in-time copy of a task's scheduling fields.
type TaskInfo struct {
	Handle       Handle
	State        State
	Counter      int64
	Priority     int64
	PreemptCount uint64
	SP           uint64
	Current      bool
}
