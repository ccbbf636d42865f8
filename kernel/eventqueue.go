// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

package kernel

import "fmt"

// eventKind tags what an event node wakes: a process wake or a driver
// update. Modeled as a tagged variant rather than the original
// runtime's union-plus-enum.
type eventKind int

const (
	wakeProcess eventKind = iota
	updateDriver
)

// event is one node of the singly linked, relative-delta event queue.
// delta is relative to the predecessor's fire time, exactly as in the
// original deltaq; iteration only matters when delta == 0 (events
// scheduled at the current simulated time but a later delta cycle).
type event struct {
	delta     uint64
	iteration int32
	kind      eventKind
	proc      *Process
	sig       *Signal
	next      *event
}

// Queue is a singly linked list of events keyed by relative delta from
// its predecessor, supporting ordered insert and pop-front.
type Queue struct {
	head *event
	last *event
}

// Empty reports whether the queue has no pending events; rt_exec's
// main loop runs Cycle until this is true.
func (q *Queue) Empty() bool { return q.head == nil }

// Peek returns a non-owning view of the head event, or nil if empty.
func (q *Queue) Peek() *event { return q.head }

// Insert enqueues a process wake or driver update at the given
// relative delay in femtoseconds: walk from the head accumulating a
// prefix sum, split the predecessor/successor deltas around the new
// node, and assign iteration = currentIteration+1 when delta == 0 (a
// later delta cycle at the same simulated time) or 0 otherwise.
func (q *Queue) insert(delta uint64, currentIteration int32, ev *event) {
	ev.delta = delta
	if delta == 0 {
		ev.iteration = currentIteration + 1
	} else {
		ev.iteration = 0
	}

	if q.head == nil {
		q.head = ev
		q.last = ev
		return
	}

	var prev *event
	it := q.head
	sum := uint64(0)
	for it != nil && sum+it.delta <= delta {
		sum += it.delta
		prev = it
		it = it.next
	}

	ev.delta = delta - sum
	ev.next = it

	if it != nil {
		it.delta -= ev.delta
	} else {
		q.last = ev
	}

	if prev != nil {
		prev.next = ev
	} else {
		q.head = ev
	}
}

// InsertProcessWake schedules a process wake (the event-queue half of
// the schedule_process shim).
func (q *Queue) InsertProcessWake(delta uint64, currentIteration int32, p *Process) {
	q.insert(delta, currentIteration, &event{kind: wakeProcess, proc: p})
}

// InsertDriverUpdate schedules a driver update (the event-queue half
// of schedule_waveform).
func (q *Queue) InsertDriverUpdate(delta uint64, currentIteration int32, sig *Signal) {
	q.insert(delta, currentIteration, &event{kind: updateDriver, sig: sig})
}

// Pop frees the head event and advances the queue to its successor.
func (q *Queue) Pop() {
	if q.head == nil {
		return
	}
	q.head = q.head.next
	if q.head == nil {
		q.last = nil
	}
}

// Dump writes one line per pending event to sink's trace output: the
// event's relative delta and either "driver <signal-name>" or
// "process <name>". This is the original runtime's deltaq_dump,
// gated behind TRACE_DELTAQ and invoked at the top of every cycle when
// tracing is enabled; disasm.go supplies the precedent for formatting
// internal state into one readable line per entry, here repurposed
// from instruction mnemonics to queue entries.
func (q *Queue) Dump(now uint64, iteration int32, sink Sink) {
	for it := q.head; it != nil; it = it.next {
		if it.kind == updateDriver {
			sink.Tracef(now, iteration, "%s\tdriver\t %s", FormatTime(it.delta), it.sig.Name)
		} else {
			sink.Tracef(now, iteration, "%s\tprocess\t %s", FormatTime(it.delta), it.proc.Name)
		}
	}
}

// String is a debugging aid only, not used by the kernel's own trace
// output (Dump is), but convenient in tests that want to assert on
// queue shape without hand-walking it.
func (q *Queue) String() string {
	s := ""
	for it := q.head; it != nil; it = it.next {
		if it.kind == updateDriver {
			s += fmt.Sprintf("[driver %s delta=%d it=%d]", it.sig.Name, it.delta, it.iteration)
		} else {
			s += fmt.Sprintf("[proc %s delta=%d it=%d]", it.proc.Name, it.delta, it.iteration)
		}
	}
	return s
}
