package kernel

// InternalResource is an OSEK priority-ceiling lock bound statically to
// a single task. At most one task may hold it; it is taken
// automatically when its owning task starts and released implicitly on
// terminate or block.
type InternalResource struct {
	CeilingPriority   uint32
	OwnerPrevPriority uint32
	Taken             bool
}

// GetInternal takes stat's internal resource on behalf of dyn, raising
// dyn's dynamic priority to the resource's ceiling so that no
// lower-priority activation can preempt it. A no-op if stat has no
// internal resource, or it is already taken — idempotent.
func GetInternal(stat *StaticProc, dyn *DynProc) {
	r := stat.InternalResource
	if r == nil || r.Taken {
		return
	}
	r.Taken = true
	r.OwnerPrevPriority = dyn.Priority
	dyn.Priority = r.CeilingPriority
}

// ReleaseInternal releases stat's internal resource held by dyn, restoring
// the priority saved at acquisition. A no-op if nothing is held —
// idempotent.
func ReleaseInternal(stat *StaticProc, dyn *DynProc) {
	r := stat.InternalResource
	if r == nil || !r.Taken {
		return
	}
	dyn.Priority = r.OwnerPrevPriority
	r.Taken = false
}
