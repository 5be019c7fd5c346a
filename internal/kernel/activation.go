package kernel

// ActivateTask posts one activation of id. Every process kind is handled
// the same way; internal/bootstrap uses it for the idle task and for
// autostarted ISR2s as well as tasks. Acquires the kernel lock for the
// duration of the call.
//
// Returns E_OS_LIMIT if id's queued-activation count has reached its
// static maximum — the caller is informed via the return code alone, no
// hook fires. Otherwise, if id was SUSPENDED it becomes READY_AND_NEW;
// in every case one new entry is pushed onto the ready heap and the
// activation count is bumped. On a core with nothing running yet the
// heap's root is started directly and E_OK returned; otherwise a
// reschedule decision is made.
func (k *Kern) ActivateTask(id ProcId) StatusCode {
	k.Lock()
	defer k.Unlock()

	stat := k.Stat[id]
	dyn := k.Dyn[id]

	if dyn.ActivateCount >= stat.MaxActivateCount {
		return EOsLimit
	}

	if dyn.ActivateCount == 0 {
		dyn.State = ReadyAndNew
		if stat.Extended {
			dyn.EvtSet = 0
			dyn.EvtWait = 0
		}
	}
	k.Heap.PutNew(id, stat.BasePriority)
	dyn.ActivateCount++

	if k.RunningID == InvalidProcId {
		k.Start()
		return EOk
	}

	k.ScheduleFromRunning()
	if k.NeedSwitch&NeedSwitch != 0 {
		return EOkAndSchedule
	}
	return EOk
}

// SetEvent sets the bits in mask on id's pending-event field.
// Extended-task-only: a no-op (E_OK) on a plain task. Returns
// E_OS_STATE if id is SUSPENDED. Otherwise ORs mask into EvtSet; if the
// new set intersects EvtWait, EvtWait is cleared, and if id was WAITING
// it transitions to Ready, is re-queued fresh via put_new at its base
// priority, and a reschedule decision is made.
func (k *Kern) SetEvent(id ProcId, mask uint32) StatusCode {
	k.Lock()
	defer k.Unlock()

	stat := k.Stat[id]
	dyn := k.Dyn[id]

	if !stat.Extended {
		return EOk
	}
	if dyn.State == Suspended {
		return EOsState
	}

	dyn.EvtSet |= mask
	if dyn.EvtSet&dyn.EvtWait == 0 {
		return EOk
	}
	dyn.EvtWait = 0

	if dyn.State != Waiting {
		return EOk
	}

	dyn.State = Ready
	k.Heap.PutNew(id, stat.BasePriority)

	if k.RunningID == InvalidProcId {
		k.Start()
		return EOk
	}

	k.ScheduleFromRunning()
	if k.NeedSwitch&NeedSwitch != 0 {
		return EOkAndSchedule
	}
	return EOk
}
