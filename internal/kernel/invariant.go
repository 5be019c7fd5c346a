package kernel

import "github.com/davecgh/go-spew/spew"

// assertInvariant panics with a dump of state when cond is false.
// Broken invariants (heap index out of range, a process reaching a
// state the dispatcher never intended) are fatal assertions, not
// recoverable errors — the dispatcher never guesses its way past a
// corrupt ready heap or descriptor table. Grounded on the teacher's
// pkg/fmtt.PrintErrChainDebug, which reaches for go-spew to dump
// structures when diagnosing a broken invariant instead of printing a
// bare error string.
func assertInvariant(cond bool, msg string, state any) {
	if cond {
		return
	}
	panic("kernel: invariant violated: " + msg + "\n" + spew.Sdump(state))
}
