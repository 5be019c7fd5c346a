package main

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tessera-systems/ossched/internal/bootstrap"
	"github.com/tessera-systems/ossched/internal/config"
	"github.com/tessera-systems/ossched/internal/kernel"
)

// buildSystem constructs one Kern per configured core, wired with a
// fresh ready heap sized off the static table, a SimPort, and a shared
// trace registry — the fixed two-core world cmd/oskernel boots and
// drives.
func buildSystem(log *zap.Logger) *bootstrap.System {
	numProcs := len(config.Procs)
	numPrios := int(config.MaxPriority()) + 1

	stat := make([]*kernel.StaticProc, numProcs)
	dyn := make([]*kernel.DynProc, numProcs)
	for _, p := range config.Procs {
		var res *kernel.InternalResource
		if p.ResourceCeiling != 0 {
			res = &kernel.InternalResource{CeilingPriority: p.ResourceCeiling}
		}
		stat[p.ID] = &kernel.StaticProc{
			ID:               p.ID,
			Name:             p.Name,
			BasePriority:     p.BasePriority,
			MaxActivateCount: p.MaxActivateCount,
			Kind:             p.Kind,
			Extended:         p.Extended,
			CoreID:           p.CoreID,
			InternalResource: res,
		}
		dyn[p.ID] = kernel.NewDynProc(p.ID, p.BasePriority)
	}

	trace := kernel.NewTraceRegistry()
	cores := make(map[int]*kernel.Kern, len(config.CoreIDs()))
	for _, coreID := range config.CoreIDs() {
		heap := kernel.NewReadyHeap(numProcs, numPrios)
		hooks := kernel.NewZapHooks(log)
		port := kernel.NewSimPort(log)
		cores[coreID] = kernel.NewKern(coreID, heap, stat, dyn, hooks, port, trace.Get(coreID))
	}

	return &bootstrap.System{
		Cores:   cores,
		Trace:   trace,
		Pending: bootstrap.NewPendingTimeObjects(),
	}
}

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	sys := buildSystem(log)

	const appMode uint32 = 0
	if err := bootstrap.InitOS(context.Background(), appMode, sys, nil, log); err != nil {
		log.Fatal("init_os failed", zap.Error(err))
	}

	for coreID, k := range sys.Cores {
		k.Lock()
		log.Info("core booted",
			zap.Int("core", coreID),
			zap.Int32("running", int32(k.RunningID)),
			zap.String("process", k.SRunning.Name),
		)
		k.Unlock()
	}

	// Activate a higher-priority task on core 0, forcing a reschedule
	// decision.
	core0 := sys.Cores[0]
	status := core0.ActivateTask(config.ByName["TaskBeta"].ID)
	log.Info("activated TaskBeta", zap.Stringer("status", status))
}
