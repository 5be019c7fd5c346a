// Package bootstrap implements init_os(app_mode): fanning every
// configured core's boot work out in parallel the way the teacher's
// zmux-server readiness wait fans out over channels with
// golang.org/x/sync/errgroup.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tessera-systems/ossched/internal/config"
	"github.com/tessera-systems/ossched/internal/kernel"
)

// AutostartEntry describes one time object (alarm or schedule table)
// InitOS should stage at boot if app_mode is in its autostart mask.
// Supplied alongside config.Procs since the fixed process table has no
// analogous notion of alarms/schedule tables.
type AutostartEntry struct {
	ID       int64
	Kind     TimeObjectKind
	Mode     StartMode
	AppModes uint32 // bitmask of app_mode values that autostart this entry
	Offset   time.Duration
}

// System bundles everything InitOS needs: one Kern per core plus the
// shared pieces a core's boot work writes into.
type System struct {
	Cores   map[int]*kernel.Kern
	Trace   *kernel.TraceRegistry
	Pending *PendingTimeObjects
}

// InitOS activates the idle task on every core, then walks the static
// process table and the supplied alarm/schedule-table autostart entries,
// activating every task (and staging every time object) whose autostart
// mask has bit appMode set. Each core's portion of the work runs
// concurrently via errgroup — cores are partitioned and disjoint, so
// there is no shared mutable state to race on beyond what each Kern
// itself already guards internally.
func InitOS(ctx context.Context, appMode uint32, sys *System, autostarts []AutostartEntry, log *zap.Logger) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("bootstrap: invalid static configuration: %w", err)
	}
	log = log.Named("bootstrap")

	g, _ := errgroup.WithContext(ctx)
	for _, coreID := range config.CoreIDs() {
		coreID := coreID
		k, ok := sys.Cores[coreID]
		if !ok {
			return fmt.Errorf("bootstrap: no Kern registered for core %d", coreID)
		}
		g.Go(func() error {
			return bootCore(coreID, k, appMode, log)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, a := range autostarts {
		if a.AppModes&(1<<appMode) == 0 {
			continue
		}
		sys.Pending.Insert(a.ID, a.Kind, a.Mode, time.Now().Add(a.Offset))
	}

	return nil
}

// bootCore activates this core's idle task and every task in its
// partition whose autostart mask includes appMode. The first activation
// starts the idle task and each later one runs the reschedule decision,
// so the highest-priority activated process ends up running.
func bootCore(coreID int, k *kernel.Kern, appMode uint32, log *zap.Logger) error {
	procs := config.OnCore(coreID)

	var idleID kernel.ProcId = kernel.InvalidProcId
	for _, p := range procs {
		if p.Kind == kernel.KindIdle {
			idleID = p.ID
		}
	}
	if idleID == kernel.InvalidProcId {
		return fmt.Errorf("bootstrap: core %d has no idle task", coreID)
	}

	status := k.ActivateTask(idleID)
	log.Debug("activated idle task", zap.Int("core", coreID), zap.Int32("id", int32(idleID)), zap.Stringer("status", status))

	for _, p := range procs {
		if p.Kind != kernel.KindTask && p.Kind != kernel.KindISR2 {
			continue
		}
		if p.AutostartMask&(1<<appMode) == 0 {
			continue
		}
		status := k.ActivateTask(p.ID)
		log.Debug("autostarted process", zap.Int("core", coreID), zap.String("name", p.Name), zap.Stringer("status", status))
	}

	return nil
}
