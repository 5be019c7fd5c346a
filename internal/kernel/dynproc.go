package kernel

// State is a process's position in its lifecycle.
type State uint8

const (
	Suspended State = iota
	ReadyAndNew
	Ready
	Running
	Waiting
	Dying
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "SUSPENDED"
	case ReadyAndNew:
		return "READY_AND_NEW"
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Waiting:
		return "WAITING"
	case Dying:
		return "DYING"
	default:
		return "UNKNOWN"
	}
}

// DynProc is the mutable per-process descriptor.
//
// Key holds the full heap key (priority and rank bits) this process was
// last queued under — set by Start when popping a READY_AND_NEW entry,
// and reused by Preempt to re-queue with the rank bits preserved but the
// (possibly resource-elevated) current priority substituted in.
type DynProc struct {
	ID            ProcId
	State         State
	ActivateCount uint32
	Priority      uint32 // dynamic priority, possibly elevated by a resource
	Key           uint32

	// EvtSet / EvtWait are meaningful only for extended tasks.
	EvtSet  uint32
	EvtWait uint32
}

// NewDynProc returns a process in its boot state: suspended, no
// activations queued.
func NewDynProc(id ProcId, basePriority uint32) *DynProc {
	return &DynProc{
		ID:       id,
		State:    Suspended,
		Priority: basePriority,
	}
}
