package kernel

import "go.uber.org/zap"

// Hooks is the OSEK hook interface: pre/post task hooks around every
// Start/Preempt, and error/protection hooks for reporting status codes
// back out of the kernel. The bodies of these hooks (trace capture,
// timing-protection policy) are out of scope; only the interface and a
// logging default live here.
type Hooks interface {
	PreTaskHook(id ProcId)
	PostTaskHook(id ProcId)
	ErrorHook(code StatusCode)
	ProtectionHook(code StatusCode)
}

// ZapHooks is the default Hooks implementation: structured logging via
// go.uber.org/zap, one named sub-logger per the teacher's convention
// (log.Named("hooks")).
type ZapHooks struct {
	log *zap.Logger
}

// NewZapHooks wraps log for hook-call logging.
func NewZapHooks(log *zap.Logger) *ZapHooks {
	return &ZapHooks{log: log.Named("hooks")}
}

func (h *ZapHooks) PreTaskHook(id ProcId) {
	h.log.Debug("pre_task_hook", zap.Int32("proc_id", int32(id)))
}

func (h *ZapHooks) PostTaskHook(id ProcId) {
	h.log.Debug("post_task_hook", zap.Int32("proc_id", int32(id)))
}

func (h *ZapHooks) ErrorHook(code StatusCode) {
	h.log.Error("error_hook", zap.Stringer("code", code))
}

func (h *ZapHooks) ProtectionHook(code StatusCode) {
	h.log.Warn("protection_hook", zap.Stringer("code", code))
}
