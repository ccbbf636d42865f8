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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainDriverNames(q *Queue) []string {
	var names []string
	for it := q.head; it != nil; it = it.next {
		names = append(names, it.sig.Name)
	}
	return names
}

func absoluteFireTimes(q *Queue) []uint64 {
	var times []uint64
	sum := uint64(0)
	for it := q.head; it != nil; it = it.next {
		sum += it.delta
		times = append(times, sum)
	}
	return times
}

// TestQueueRelativeDeltaOrdering covers out-of-order inserts: 10, 3, 7
// from time 0 must pop out 3, 7, 10.
func TestQueueRelativeDeltaOrdering(t *testing.T) {
	q := &Queue{}
	s10 := NewSignal(nil, "s10", 1)
	s3 := NewSignal(nil, "s3", 1)
	s7 := NewSignal(nil, "s7", 1)

	q.InsertDriverUpdate(10, -1, s10)
	q.InsertDriverUpdate(3, -1, s3)
	q.InsertDriverUpdate(7, -1, s7)

	assert.Equal(t, []string{"s3", "s7", "s10"}, drainDriverNames(q))
	assert.Equal(t, []uint64{3, 7, 10}, absoluteFireTimes(q))
}

// TestQueueSortednessAfterManyInserts checks the queue's core
// invariant: after any sequence of inserts, walking the queue and
// prefix-summing delta yields a non-decreasing sequence of absolute
// fire times.
func TestQueueSortednessAfterManyInserts(t *testing.T) {
	q := &Queue{}
	deltas := []uint64{50, 5, 30, 5, 100, 1, 0, 20}
	for _, d := range deltas {
		sig := NewSignal(nil, "s", 1)
		q.InsertDriverUpdate(d, -1, sig)
	}

	times := absoluteFireTimes(q)
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i], times[i-1], "queue not sorted at index %d", i)
	}
}

// TestQueuePopOrderMatchesInsertionOrderForTies exercises the FIFO
// tie-break: two driver updates inserted with delta==0 one after
// another (so both land at iteration = currentIteration+1) must pop
// in insertion order.
func TestQueuePopOrderMatchesInsertionOrderForTies(t *testing.T) {
	q := &Queue{}
	first := NewSignal(nil, "first", 1)
	second := NewSignal(nil, "second", 1)

	q.InsertDriverUpdate(0, -1, first)
	q.InsertDriverUpdate(0, -1, second)

	assert.Equal(t, []string{"first", "second"}, drainDriverNames(q))
}

// TestQueueDeltaZeroGetsNextIteration covers the iteration-assignment
// rule: events scheduled with delta == 0 from within a cycle inherit
// current_iteration + 1; events scheduled with delta > 0 always get
// iteration = 0.
func TestQueueDeltaZeroGetsNextIteration(t *testing.T) {
	q := &Queue{}
	sigZero := NewSignal(nil, "zero", 1)
	sigPos := NewSignal(nil, "pos", 1)

	q.InsertDriverUpdate(0, 3, sigZero)
	q.InsertDriverUpdate(5, 3, sigPos)

	require.NotNil(t, q.head)
	zero := q.head
	assert.Equal(t, int32(4), zero.iteration)

	pos := zero.next
	require.NotNil(t, pos)
	assert.Equal(t, int32(0), pos.iteration)
}

// TestQueueDeltaPreservation checks delta preservation: inserting into
// position k must not change the sum of deltas from head to any node
// at or after k+1.
func TestQueueDeltaPreservation(t *testing.T) {
	q := &Queue{}
	a := NewSignal(nil, "a", 1)
	b := NewSignal(nil, "b", 1)
	q.InsertDriverUpdate(10, -1, a)
	q.InsertDriverUpdate(20, -1, b) // absolute fire times, relative to now: a=10, b=20

	before := absoluteFireTimes(q)

	c := NewSignal(nil, "c", 1)
	q.InsertDriverUpdate(15, -1, c) // inserts between a (10) and b (20)

	after := absoluteFireTimes(q)
	// a and b's absolute fire times must be unchanged.
	assert.Contains(t, after, before[0])
	assert.Contains(t, after, before[1])
	assert.Equal(t, []uint64{10, 15, 20}, after)
}

func TestQueuePopFreesHeadAndAdvances(t *testing.T) {
	q := &Queue{}
	a := NewSignal(nil, "a", 1)
	b := NewSignal(nil, "b", 1)
	q.InsertDriverUpdate(1, -1, a)
	q.InsertDriverUpdate(1, -1, b)

	require.Equal(t, "a", q.Peek().sig.Name)
	q.Pop()
	require.NotNil(t, q.Peek())
	assert.Equal(t, "b", q.Peek().sig.Name)
	q.Pop()
	assert.True(t, q.Empty())
	assert.Nil(t, q.last)
}
