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

// Transaction is one node of a driver's waveform queue: a future
// (value, when) pair, singly linked in strictly non-decreasing When
// order. The head of each driver's queue is the currently applied
// transaction.
type Transaction struct {
	Value Value
	When  uint64
	next  *Transaction
}

// scheduleWaveform projects a new transaction into driverIx's queue at
// now+after, materializing the dummy initial transaction when the
// queue was empty, then schedules a driver-update event for sig at the
// same relative delay.
//
// Preconditions enforced as invariant panics, matching the original's
// assert(): after >= 0 is implied by the uint64 type; driverIx must be
// in range; the dummy-transaction path requires now == 0 && after == 0.
func (ctx *Context) scheduleWaveform(sig *Signal, driverIx int, value Value, after uint64) {
	if driverIx < 0 || driverIx >= len(sig.Sources) {
		panic("schedule_waveform: driver index out of range")
	}

	ctx.Sink.Tracef(ctx.Now, ctx.Iteration, "_sched_waveform %s source=%d value=%x after=%s",
		sig.Name, driverIx, value.Bits(), FormatTime(after))

	when := ctx.Now + after
	w := &Transaction{Value: value, When: when}

	var last *Transaction
	it := sig.Sources[driverIx]
	for it != nil && it.When <= w.When {
		last = it
		it = it.next
	}
	w.next = it

	if last == nil {
		// Assigning the initial value of a driver: materialize a dummy
		// predecessor so the genuine transaction propagates during the
		// first cycle's driver update instead of being mistaken for
		// already applied.
		if ctx.Now != 0 || after != 0 {
			panic("schedule_waveform: initial driver assignment must occur at now=0, after=0")
		}
		dummy := &Transaction{Value: value, When: 0, next: w}
		sig.Sources[driverIx] = dummy
	} else {
		last.next = w
	}

	ctx.Queue.InsertDriverUpdate(after, ctx.Iteration, sig)
}

// updateDriverEvent promotes every driver of sig whose next
// transaction is due at ctx.Now into the signal's resolved value,
// raising ACTIVE (and EVENT, if the value actually changed) unless
// this is the very first cycle at time zero (initial values never
// count as events).
func (ctx *Context) updateDriverEvent(sig *Signal) {
	for i := range sig.Sources {
		head := sig.Sources[i]
		next := head.next

		if next != nil && next.When == ctx.Now {
			ctx.Sink.Tracef(ctx.Now, ctx.Iteration, "update signal %s value %x", sig.Name, next.Value.Bits())

			var newFlags Flags
			firstCycle := ctx.Iteration == 0 && ctx.Now == 0
			if !firstCycle {
				newFlags.Set(FlagActive)
				if !sig.Resolved.Equal(next.Value) {
					newFlags.Set(FlagEvent)
				}
				ctx.markActive(sig)
			}

			sig.Resolved = next.Value
			sig.Flags.Set(newFlags)
			sig.Sources[i] = next
		} else if head == nil {
			panic("update_driver: driver queue head must not be nil")
		}
	}
}
