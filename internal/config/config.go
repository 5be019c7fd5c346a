// Package config holds the fixed, build-time process and resource tables
// that a real OSEK system would get from its OIL/ARXML generator —
// code generation is out of scope here. This package is the
// hand-authored stand-in: one fixed multi-core configuration, wired up
// once at process start by internal/bootstrap.
package config

import "github.com/tessera-systems/ossched/internal/kernel"

// ProcSpec is one statically-configured process's table entry.
type ProcSpec struct {
	ID               kernel.ProcId
	Name             string
	BasePriority     uint32
	MaxActivateCount uint32
	Kind             kernel.ProcKind
	Extended         bool
	CoreID           int
	AutostartMask    uint32 // task_app_mode[id]: bit N set means autostart under app mode N
	ResourceCeiling  uint32 // 0 means "no internal resource bound"
}

// Procs is the fixed process table for this build: a handful of tasks and
// ISR2s spread across two cores plus one idle task per core, used by
// cmd/oskernel to drive a representative boot-and-activate scenario.
//
// Index is ProcId — ProcSpec.ID must equal its own slice index, enforced
// by Validate.
var Procs = []ProcSpec{
	{ID: 0, Name: "TaskAlpha", BasePriority: 10, MaxActivateCount: 1, Kind: kernel.KindTask, Extended: false, CoreID: 0, AutostartMask: 1 << 0},
	{ID: 1, Name: "TaskBeta", BasePriority: 20, MaxActivateCount: 4, Kind: kernel.KindTask, Extended: false, CoreID: 0, ResourceCeiling: 30},
	{ID: 2, Name: "TaskGamma", BasePriority: 15, MaxActivateCount: 2, Kind: kernel.KindTask, Extended: true, CoreID: 0},
	{ID: 3, Name: "IsrAlpha", BasePriority: 40, MaxActivateCount: 1, Kind: kernel.KindISR2, Extended: false, CoreID: 0},
	{ID: 4, Name: "IdleCore0", BasePriority: 0, MaxActivateCount: 1, Kind: kernel.KindIdle, Extended: false, CoreID: 0},

	{ID: 5, Name: "TaskDelta", BasePriority: 10, MaxActivateCount: 3, Kind: kernel.KindTask, Extended: false, CoreID: 1, AutostartMask: 1 << 0},
	{ID: 6, Name: "TaskEpsilon", BasePriority: 25, MaxActivateCount: 1, Kind: kernel.KindTask, Extended: true, CoreID: 1},
	{ID: 7, Name: "IsrBeta", BasePriority: 35, MaxActivateCount: 1, Kind: kernel.KindISR2, Extended: false, CoreID: 1},
	{ID: 8, Name: "IdleCore1", BasePriority: 0, MaxActivateCount: 1, Kind: kernel.KindIdle, Extended: false, CoreID: 1},
}

// ByName indexes Procs by name for test and diagnostic lookups, the way
// the teacher's env package indexes client bindings by key.
var ByName = func() map[string]ProcSpec {
	m := make(map[string]ProcSpec, len(Procs))
	for _, p := range Procs {
		m[p.Name] = p
	}
	return m
}()

// CoreIDs returns the distinct core ids appearing in Procs, in ascending
// order.
func CoreIDs() []int {
	seen := map[int]bool{}
	var cores []int
	for _, p := range Procs {
		if !seen[p.CoreID] {
			seen[p.CoreID] = true
			cores = append(cores, p.CoreID)
		}
	}
	for i := 0; i < len(cores); i++ {
		for j := i + 1; j < len(cores); j++ {
			if cores[j] < cores[i] {
				cores[i], cores[j] = cores[j], cores[i]
			}
		}
	}
	return cores
}

// OnCore returns the ProcSpecs assigned to coreID, in table order.
func OnCore(coreID int) []ProcSpec {
	var out []ProcSpec
	for _, p := range Procs {
		if p.CoreID == coreID {
			out = append(out, p)
		}
	}
	return out
}

// MaxPriority returns the highest BasePriority or ResourceCeiling
// appearing in Procs, used to size each core's ready heap's
// per-priority rank-tail table.
func MaxPriority() uint32 {
	var max uint32
	for _, p := range Procs {
		if p.BasePriority > max {
			max = p.BasePriority
		}
		if p.ResourceCeiling > max {
			max = p.ResourceCeiling
		}
	}
	return max
}

// Validate checks the table's internal consistency invariants: dense
// zero-based ids matching slice position, and exactly one idle task per
// core.
func Validate() error {
	for i, p := range Procs {
		if int(p.ID) != i {
			return &ConfigError{Msg: "process table index mismatch", Name: p.Name}
		}
	}
	idleCount := map[int]int{}
	for _, p := range Procs {
		if p.Kind == kernel.KindIdle {
			idleCount[p.CoreID]++
		}
	}
	for _, core := range CoreIDs() {
		if idleCount[core] != 1 {
			return &ConfigError{Msg: "core must have exactly one idle task", Core: core}
		}
	}
	return nil
}

// ConfigError reports a static configuration table defect, caught at
// boot by internal/bootstrap.InitOS before any core starts scheduling.
type ConfigError struct {
	Msg  string
	Name string
	Core int
}

func (e *ConfigError) Error() string {
	if e.Name != "" {
		return e.Msg + ": " + e.Name
	}
	return e.Msg
}
