package processor

// Mode selects the concurrency-control regime a Processor runs, per
// spec.md §6.
type Mode int

const (
	// Serial executes one transaction at a time with no concurrency.
	Serial Mode = iota
	// LockingExclusiveOnly uses the exclusive-only lock manager: every
	// ReadLock/WriteLock call takes an EXCLUSIVE lock.
	LockingExclusiveOnly
	// Locking uses the shared/exclusive lock manager.
	Locking
	// OCC is classical optimistic concurrency control: execute
	// speculatively, then validate against storage timestamps.
	OCC
	// ParallelOCC offloads validation to worker threads, using an
	// active-set intersection check in addition to the timestamp check.
	ParallelOCC
)

func (m Mode) String() string {
	switch m {
	case Serial:
		return "SERIAL"
	case LockingExclusiveOnly:
		return "LOCKING_EXCLUSIVE_ONLY"
	case Locking:
		return "LOCKING"
	case OCC:
		return "OCC"
	case ParallelOCC:
		return "P_OCC"
	default:
		return "UNKNOWN"
	}
}
