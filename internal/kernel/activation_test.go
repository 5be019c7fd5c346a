package kernel

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ActivationTestSuite struct {
	suite.Suite
}

func TestActivationTestSuite(t *testing.T) {
	suite.Run(t, new(ActivationTestSuite))
}

// TestScenarioD: an extended task blocks waiting on a mask, is unaffected
// by an unrelated event, and becomes ready once the awaited bit arrives.
func (ts *ActivationTestSuite) TestScenarioD() {
	idle := &StaticProc{ID: 0, Name: "idle", BasePriority: 0, MaxActivateCount: 1, Kind: KindIdle}
	taskW := &StaticProc{ID: 1, Name: "W", BasePriority: 2, MaxActivateCount: 1, Kind: KindTask, Extended: true}
	k := newTestKern(idle, taskW)

	k.ActivateTask(0) // idle runs
	k.ActivateTask(1) // W preempts idle and runs
	k.Running.EvtWait = 0b0010

	k.Block()
	ts.Equal(Waiting, k.Dyn[1].State)
	ts.Equal(ProcId(0), k.RunningID, "idle must take over while W waits")

	status := k.SetEvent(1, 0b0001)
	ts.Equal(EOk, status)
	ts.Equal(Waiting, k.Dyn[1].State, "an unrelated event bit must not wake W")

	status = k.SetEvent(1, 0b0010)
	ts.Equal(EOkAndSchedule, status)
	ts.Equal(ProcId(1), k.RunningID, "W outranks idle once woken and must be rescheduled onto the core")
	ts.EqualValues(0, k.Dyn[1].EvtWait, "evt_wait must be cleared on wake")
}

// TestSetEventBlockRoundTrip is invariant 6, parameterized over several
// (mask, wait) pairs.
func (ts *ActivationTestSuite) TestSetEventBlockRoundTrip() {
	cases := []struct {
		wait, mask uint32
		wake       bool
	}{
		{wait: 0b001, mask: 0b001, wake: true},
		{wait: 0b001, mask: 0b010, wake: false},
		{wait: 0b110, mask: 0b100, wake: true},
		{wait: 0b110, mask: 0b001, wake: false},
	}

	for _, tc := range cases {
		idle := &StaticProc{ID: 0, Name: "idle", BasePriority: 0, MaxActivateCount: 1, Kind: KindIdle}
		taskT := &StaticProc{ID: 1, Name: "T", BasePriority: 2, MaxActivateCount: 1, Kind: KindTask, Extended: true}
		k := newTestKern(idle, taskT)

		k.ActivateTask(0) // idle runs
		k.ActivateTask(1) // T preempts idle and runs
		ts.Equal(ProcId(1), k.RunningID)

		k.Running.EvtWait = tc.wait
		k.Block()
		ts.Equal(Waiting, k.Dyn[1].State)

		k.SetEvent(1, tc.mask)
		if tc.wake {
			ts.Equal(Running, k.Dyn[1].State, "mask %b against wait %b should wake T, which outranks idle and is rescheduled", tc.mask, tc.wait)
		} else {
			ts.Equal(Waiting, k.Dyn[1].State, "mask %b against wait %b should not wake", tc.mask, tc.wait)
		}
	}
}

// TestSetEventOnPlainTaskIsNoop: set_event is a no-op on non-extended tasks.
func (ts *ActivationTestSuite) TestSetEventOnPlainTaskIsNoop() {
	taskT := &StaticProc{ID: 0, Name: "T", BasePriority: 2, MaxActivateCount: 1, Kind: KindTask, Extended: false}
	k := newTestKern(taskT)
	k.ActivateTask(0)

	status := k.SetEvent(0, 0b1)
	ts.Equal(EOk, status)
	ts.Equal(Running, k.Dyn[0].State)
}

// TestSetEventOnSuspendedTaskReturnsStateError.
func (ts *ActivationTestSuite) TestSetEventOnSuspendedTaskReturnsStateError() {
	taskW := &StaticProc{ID: 0, Name: "W", BasePriority: 2, MaxActivateCount: 1, Kind: KindTask, Extended: true}
	k := newTestKern(taskW)
	// Never activated: W starts out SUSPENDED.

	status := k.SetEvent(0, 0b1)
	ts.Equal(EOsState, status)
}

// TestActivateTaskOverLimitReturnsLimitError.
func (ts *ActivationTestSuite) TestActivateTaskOverLimitReturnsLimitError() {
	taskT := &StaticProc{ID: 0, Name: "T", BasePriority: 1, MaxActivateCount: 1, Kind: KindTask}
	k := newTestKern(taskT)

	ts.Equal(EOk, k.ActivateTask(0))
	ts.Equal(EOsLimit, k.ActivateTask(0))
}
