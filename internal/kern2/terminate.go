// Package kern2 layers the higher-level terminate services on top of
// internal/kernel's bare Terminate primitive: kernel-lock acquisition,
// interrupt-status repair, external-resource release, and error-hook
// reporting of whatever the calling process left dirty on its way out.
// Grounded on the teacher's process_manager2.go, which layers a richer
// supervision policy on top of process_manager.go's primitives the
// same way this package layers policy on top of kernel.Kern.Terminate.
package kern2

import "github.com/tessera-systems/ossched/internal/kernel"

// ExternalResourceReleaser is the external-resource-mechanism interface
// this package depends on. *kernel.ExternalResources satisfies it.
type ExternalResourceReleaser interface {
	ReleaseAll(id kernel.ProcId) int
	AnyHeld(id kernel.ProcId) bool
}

// CallTerminateTaskService wraps kernel.Kern.Terminate with the task
// exit-path policy: acquire the kernel lock, re-enable interrupts if
// the task left them masked, release any external resources it still
// holds, and report E_OS_MISSINGEND through the error hook
// unconditionally — this path only runs because the task returned
// without calling TerminateTask itself, which is the fault being
// reported regardless of what it left dirty — then run Terminate and
// drop the lock.
func CallTerminateTaskService(k *kernel.Kern, port kernel.Port, hooks kernel.Hooks, ext ExternalResourceReleaser) {
	k.Lock()
	defer k.Unlock()

	id := k.RunningID

	if port.GetInterruptLockStatus() {
		port.ResetInterruptLockStatus()
	}
	if ext.AnyHeld(id) {
		ext.ReleaseAll(id)
	}
	hooks.ErrorHook(kernel.EOsMissingEnd)

	k.Terminate()
}

// CallTerminateISR2Service wraps kernel.Kern.Terminate with the
// category-2-ISR exit-path policy: acquire the kernel lock, and —
// distinctly from the task path — report E_OS_DISABLEDINT if the ISR
// left interrupts masked and E_OS_RESOURCE if it left an external
// resource held, each through the error hook, repairing both before
// Terminate runs.
func CallTerminateISR2Service(k *kernel.Kern, port kernel.Port, hooks kernel.Hooks, ext ExternalResourceReleaser) {
	k.Lock()
	defer k.Unlock()

	id := k.RunningID

	if port.GetInterruptLockStatus() {
		port.ResetInterruptLockStatus()
		hooks.ErrorHook(kernel.EOsDisabledInt)
	}
	if ext.AnyHeld(id) {
		ext.ReleaseAll(id)
		hooks.ErrorHook(kernel.EOsResource)
	}

	k.Terminate()
}
