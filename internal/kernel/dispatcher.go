package kernel

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Kern is one core's dispatcher state: the ready heap, the
// static/dynamic descriptor tables it is allowed to touch, the process
// currently running, the process it is replacing at this scheduling
// point, and the need_switch flag the context-switch primitive
// consumes.
//
// Kern.mu is the kernel lock: kernel entries run with it held.
// Dispatcher methods below (Preempt, Start, Terminate, Block,
// ScheduleFromRunning) assume the caller already holds it — callers are
// Activate/SetEvent in this package and the higher-level services in
// internal/kern2.
type Kern struct {
	CoreID int

	Heap  *ReadyHeap
	Stat  []*StaticProc // indexed by ProcId; shared, read-only across cores
	Dyn   []*DynProc    // indexed by ProcId; entries this core owns are single-writer
	Hooks Hooks
	Port  Port
	Trace *traceRing

	RunningID ProcId
	Running   *DynProc
	SRunning  *StaticProc

	Old  *DynProc
	SOld *StaticProc

	NeedSwitch SwitchFlag

	mu    sync.Mutex
	resch singleflight.Group
}

// NewKern constructs a core's dispatcher, starting with no process
// running (InvalidProcId) until InitOS or Start populates it.
func NewKern(coreID int, heap *ReadyHeap, stat []*StaticProc, dyn []*DynProc, hooks Hooks, port Port, trace *traceRing) *Kern {
	return &Kern{
		CoreID:    coreID,
		Heap:      heap,
		Stat:      stat,
		Dyn:       dyn,
		Hooks:     hooks,
		Port:      port,
		Trace:     trace,
		RunningID: InvalidProcId,
	}
}

// Lock acquires the kernel lock for this core. Entry points in this
// package call it internally; internal/kern2's higher-level services
// call it directly around a sequence of dispatcher operations.
func (k *Kern) Lock() { k.mu.Lock() }

// Unlock releases the kernel lock.
func (k *Kern) Unlock() { k.mu.Unlock() }

func (k *Kern) trace(op string, from, to ProcId) {
	if k.Trace != nil {
		k.Trace.Append(TraceEntry{Op: op, From: from, To: to})
	}
}

// Preempt moves the running process back to Ready and re-queues it at
// its current (possibly resource-elevated) priority. Precondition: a
// process is running.
func (k *Kern) Preempt() {
	k.Hooks.PostTaskHook(k.RunningID)
	k.Running.State = Ready
	k.Heap.PutPreempted(k.RunningID, k.Running)
	k.Old, k.SOld = k.Running, k.SRunning
	k.trace("preempt", k.RunningID, InvalidProcId)
}

// Start pops the highest-priority entry from the ready heap and makes
// it the running process. On a process's first run (READY_AND_NEW),
// its context is initialized and its dynamic priority is established
// from the popped key's priority field. Its internal resource, if any,
// is then taken.
//
// Panics if the ready heap is empty — callers (ScheduleFromRunning,
// Block, and ActivateTask/SetEvent on a core with nothing running yet)
// only call Start when they know
// at least the idle task is queued; an empty heap at that point is a
// broken invariant, not a recoverable condition.
func (k *Kern) Start() {
	e, ok := k.Heap.RemoveFront()
	assertInvariant(ok, "Start called with an empty ready heap", k.CoreID)

	id := e.ID
	dyn := k.Dyn[id]
	stat := k.Stat[id]

	k.RunningID = id
	k.Running = dyn
	k.SRunning = stat

	if dyn.State == ReadyAndNew {
		k.initProc(stat, dyn, e)
	}
	dyn.State = Running

	GetInternal(stat, dyn)
	k.Hooks.PreTaskHook(id)
	k.trace("start", InvalidProcId, id)
}

// initProc performs the one-time setup a process needs the first time it
// is ever started: its external-resource stack is empty (nothing to
// clear here — see internal/kernel.ExternalResources, which is keyed by
// ProcId and starts empty by construction), its context is prepared by
// the machine port, and its dynamic priority is seeded from the base
// priority it was queued under.
func (k *Kern) initProc(stat *StaticProc, dyn *DynProc, e HeapEntry) {
	dyn.Key = e.Key
	dyn.Priority = entryPriority(e)
	k.Port.InitContext(stat.ID)
}

// ScheduleFromRunning is the cooperative-reschedule decision, called
// after Activate/SetEvent/Schedule service calls. If the ready heap's
// root would outrank the running process, it preempts and starts the
// new process and requests a switch; otherwise no switch is needed.
func (k *Kern) ScheduleFromRunning() {
	front, ok := k.Heap.Front()
	if !ok {
		k.NeedSwitch = NoNeedSwitch
		return
	}
	if entryPriority(front) > k.Running.Priority {
		k.Preempt()
		k.Start()
		k.NeedSwitch = NeedSwitch | NeedSave
		return
	}
	k.NeedSwitch = NoNeedSwitch
}

// RescheduleCoalesced nudges this core to re-evaluate its scheduling
// decision, collapsing concurrent nudges from multiple goroutines into a
// single ScheduleFromRunning call — a scheduling-point driver (a
// multi-goroutine test harness, or a tick source external to the kernel
// lock itself) may call this freely without each caller paying for its
// own recomputation. It is never called from ActivateTask or SetEvent,
// whose own reschedule decision must run exactly once per call.
func (k *Kern) RescheduleCoalesced() {
	k.resch.Do(strconv.Itoa(k.CoreID), func() (any, error) {
		k.Lock()
		defer k.Unlock()
		k.ScheduleFromRunning()
		return nil, nil
	})
}

// Terminate ends the running process's current activation: its
// internal resource is released, its activation count is decremented,
// and it becomes READY_AND_NEW (more activations queued) or SUSPENDED
// (none left). Extended tasks clear their event masks when re-entering
// READY_AND_NEW. The caller (a later Start) pops whatever the heap's
// new root is — Terminate itself never touches the heap.
func (k *Kern) Terminate() {
	ReleaseInternal(k.SRunning, k.Running)

	k.Running.ActivateCount--
	if k.Running.ActivateCount > 0 {
		k.Running.State = ReadyAndNew
		if k.SRunning.Extended {
			k.Running.EvtSet = 0
			k.Running.EvtWait = 0
		}
	} else {
		k.Running.State = Suspended
	}

	k.Old, k.SOld = k.Running, k.SRunning
	k.trace("terminate", k.RunningID, InvalidProcId)
}

// Block suspends the running extended task until one of its awaited
// events is set. A no-op if the condition is already satisfied — the
// task keeps running. Otherwise its internal resource is released, it
// moves to WAITING, and the dispatcher immediately starts whatever the
// heap yields next.
func (k *Kern) Block() {
	dyn := k.Running
	if dyn.EvtSet&dyn.EvtWait != 0 {
		return
	}

	dyn.State = Waiting
	ReleaseInternal(k.SRunning, dyn)
	k.Old, k.SOld = dyn, k.SRunning
	k.trace("block", k.RunningID, InvalidProcId)

	k.Start()
	k.NeedSwitch = NeedSwitch | NeedSave
}
