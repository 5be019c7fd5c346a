package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/tessera-systems/ossched/internal/config"
	"github.com/tessera-systems/ossched/internal/kernel"
)

type BootstrapTestSuite struct {
	suite.Suite
}

func TestBootstrapTestSuite(t *testing.T) {
	suite.Run(t, new(BootstrapTestSuite))
}

func buildTestSystem() *System {
	log := zap.NewNop()
	numProcs := len(config.Procs)
	numPrios := int(config.MaxPriority()) + 1

	stat := make([]*kernel.StaticProc, numProcs)
	dyn := make([]*kernel.DynProc, numProcs)
	for _, p := range config.Procs {
		stat[p.ID] = &kernel.StaticProc{
			ID: p.ID, Name: p.Name, BasePriority: p.BasePriority,
			MaxActivateCount: p.MaxActivateCount, Kind: p.Kind,
			Extended: p.Extended, CoreID: p.CoreID,
		}
		dyn[p.ID] = kernel.NewDynProc(p.ID, p.BasePriority)
	}

	trace := kernel.NewTraceRegistry()
	cores := make(map[int]*kernel.Kern, len(config.CoreIDs()))
	for _, coreID := range config.CoreIDs() {
		heap := kernel.NewReadyHeap(numProcs, numPrios)
		cores[coreID] = kernel.NewKern(coreID, heap, stat, dyn, kernel.NewZapHooks(log), kernel.NewSimPort(log), trace.Get(coreID))
	}

	return &System{Cores: cores, Trace: trace, Pending: NewPendingTimeObjects()}
}

func (ts *BootstrapTestSuite) TestInitOSActivatesIdleAndAutostartOnEveryCore() {
	sys := buildTestSystem()

	err := InitOS(context.Background(), 0, sys, nil, zap.NewNop())
	ts.NoError(err)

	for _, coreID := range config.CoreIDs() {
		k := sys.Cores[coreID]
		ts.NotEqual(kernel.InvalidProcId, k.RunningID, "core %d must have a process running after boot", coreID)
	}
}

func (ts *BootstrapTestSuite) TestInitOSStagesAutostartTimeObjects() {
	sys := buildTestSystem()
	autostarts := []AutostartEntry{
		{ID: 1, Kind: KindAlarm, Mode: StartRelative, AppModes: 1 << 0},
		{ID: 2, Kind: KindAlarm, Mode: StartRelative, AppModes: 1 << 1}, // different app mode
	}

	err := InitOS(context.Background(), 0, sys, autostarts, zap.NewNop())
	ts.NoError(err)

	ts.Equal(1, sys.Pending.Len(), "only the entry matching app mode 0 should be staged")
}
