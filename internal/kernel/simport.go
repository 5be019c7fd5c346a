package kernel

import "go.uber.org/zap"

// SimPort is a software-simulated Port: it has no real stack or
// registers to switch, but it tracks the interrupt-lock flag faithfully
// and logs every context operation, so cmd/oskernel and this package's
// tests can drive a full boot-and-run without real hardware underneath.
type SimPort struct {
	log             *zap.Logger
	interruptLocked bool
}

// NewSimPort wraps log for context-switch logging.
func NewSimPort(log *zap.Logger) *SimPort {
	return &SimPort{log: log.Named("port")}
}

func (p *SimPort) InitContext(id ProcId) {
	p.log.Debug("init_context", zap.Int32("proc_id", int32(id)))
}

func (p *SimPort) SwitchContext(old, new ProcId) {
	p.log.Debug("switch_context", zap.Int32("from", int32(old)), zap.Int32("to", int32(new)))
}

func (p *SimPort) GetInterruptLockStatus() bool { return p.interruptLocked }

func (p *SimPort) ResetInterruptLockStatus() { p.interruptLocked = false }

// SetInterruptLockStatus lets tests and the demo harness simulate a
// process that disabled interrupts without re-enabling them before
// terminating.
func (p *SimPort) SetInterruptLockStatus(locked bool) { p.interruptLocked = locked }
