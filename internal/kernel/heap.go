package kernel

import "sync"

// HeapEntry is one pending activation in a per-core ready heap.
type HeapEntry struct {
	Key uint32
	ID  ProcId
}

func entryPriority(e HeapEntry) uint32 { return e.Key >> PriorityShift }
func entryRank(e HeapEntry) uint32     { return e.Key & RankMask }

// ReadyHeap is a 1-indexed priority heap: index 0 is not a real entry,
// it carries the current size in its Key field; real entries live at
// indices 1..size. The root (index 1) is the next process to run.
//
// Cross-core insertion (PutNew called by a foreign core posting an
// activation) is serialized by mu: the calling core blocks on an
// uncontended mutex. Same-core callers already run under the kernel
// lock (internal/kern2), so in practice mu is never contended there.
type ReadyHeap struct {
	mu          sync.Mutex
	entries     []HeapEntry // entries[0] is the size sentinel; 1..cap are real slots
	tailForPrio []uint16    // TAIL_FOR_PRIO: one wrapping rank counter per priority
}

// NewReadyHeap allocates a heap with room for `capacity` queued
// activations and `numPriorities` distinct priority levels (0..numPriorities-1).
func NewReadyHeap(capacity, numPriorities int) *ReadyHeap {
	return &ReadyHeap{
		entries:     make([]HeapEntry, capacity+1),
		tailForPrio: make([]uint16, numPriorities),
	}
}

func (h *ReadyHeap) Size() int     { return int(h.entries[0].Key) }
func (h *ReadyHeap) setSize(n int) { h.entries[0].Key = uint32(n) }
func (h *ReadyHeap) Cap() int      { return len(h.entries) - 1 }

// less reports whether a should sink below b: a strictly lower
// (priority, rank) pair than b under this heap's tie-broken comparator.
// The rank comparison subtracts the *current* TAIL_FOR_PRIO value (read
// live, not snapshotted per entry) from each rank before comparing, so
// ordering stays correct across a full counter wraparound as long as the
// live rank span never exceeds RankMask+1 entries.
func (h *ReadyHeap) less(a, b HeapEntry) bool {
	pa, pb := entryPriority(a), entryPriority(b)
	if pa != pb {
		return pa < pb
	}
	tail := uint32(h.tailForPrio[pa])
	ar := (entryRank(a) - tail) & RankMask
	br := (entryRank(b) - tail) & RankMask
	return ar < br
}

// PutNew inserts a fresh activation of id at its base priority, assigning
// it the next rank in that priority's FIFO order.
func (h *ReadyHeap) PutNew(id ProcId, basePriority uint32) HeapEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	rank := h.tailForPrio[basePriority]
	h.tailForPrio[basePriority] = rank - 1
	key := (basePriority << PriorityShift) | uint32(rank)

	e := HeapEntry{Key: key, ID: id}
	h.insert(e)
	return e
}

// PutPreempted re-queues a preempted process using its current (possibly
// resource-elevated) dynamic priority, while keeping the rank bits from
// the key it was originally queued under — so it retains its original
// FIFO position relative to same-priority peers from before elevation,
// but now dominates anything still queued below its elevated priority.
func (h *ReadyHeap) PutPreempted(id ProcId, dyn *DynProc) HeapEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := (dyn.Priority << PriorityShift) | (dyn.Key & RankMask)
	e := HeapEntry{Key: key, ID: id}
	h.insert(e)
	return e
}

// Front returns the root entry without removing it.
func (h *ReadyHeap) Front() (HeapEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Size() == 0 {
		return HeapEntry{}, false
	}
	return h.entries[1], true
}

// RemoveFront pops and returns the root entry.
func (h *ReadyHeap) RemoveFront() (HeapEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := h.Size()
	if size == 0 {
		return HeapEntry{}, false
	}

	top := h.entries[1]
	h.entries[1] = h.entries[size]
	h.setSize(size - 1)
	if size > 1 {
		h.bubbleDown(1)
	}
	return top, true
}

// RemoveAll removes every queued entry for id, e.g. when an application
// is shut down and its queued activations must be discarded.
func (h *ReadyHeap) RemoveAll(id ProcId) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	i := 1
	for i <= h.Size() {
		if h.entries[i].ID != id {
			i++
			continue
		}
		size := h.Size()
		h.entries[i] = h.entries[size]
		h.setSize(size - 1)
		removed++
		if i <= h.Size() {
			h.fix(i)
		}
		// re-examine index i: it now holds whatever was moved into place
	}
	return removed
}

// fix restores the heap property at i after an arbitrary entry was placed
// there, the way container/heap.Fix does: try sifting down first, and
// only sift up if nothing moved down.
func (h *ReadyHeap) fix(i int) {
	if !h.bubbleDown(i) {
		h.bubbleUp(i)
	}
}

func (h *ReadyHeap) insert(e HeapEntry) {
	size := h.Size()
	idx := size + 1
	assertInvariant(idx <= h.Cap(), "ready heap overflow", h)
	h.entries[idx] = e
	h.setSize(idx)
	h.bubbleUp(idx)
}

func (h *ReadyHeap) bubbleUp(i int) bool {
	moved := false
	for i > 1 {
		p := i / 2
		if !h.less(h.entries[p], h.entries[i]) {
			break
		}
		h.entries[i], h.entries[p] = h.entries[p], h.entries[i]
		i = p
		moved = true
	}
	return moved
}

func (h *ReadyHeap) bubbleDown(i int) bool {
	moved := false
	size := h.Size()
	for {
		l, r := 2*i, 2*i+1
		largest := i
		if l <= size && h.less(h.entries[largest], h.entries[l]) {
			largest = l
		}
		if r <= size && h.less(h.entries[largest], h.entries[r]) {
			largest = r
		}
		if largest == i {
			break
		}
		h.entries[i], h.entries[largest] = h.entries[largest], h.entries[i]
		i = largest
		moved = true
	}
	return moved
}
