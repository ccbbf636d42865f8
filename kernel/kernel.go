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

// defaultActiveSignalsCapacity mirrors the original runtime's
// MAX_ACTIVE_SIGS=128 static bound, reworked here as a per-Context
// limit over a growable slice instead of a hard static array.
// Context still enforces the cap — overflow remains a fatal, fail-fast
// condition — but the cap is a configurable field (activeSignalsCap)
// and the slice itself grows on demand up to it.
const defaultActiveSignalsCapacity = 128

// Context bundles the kernel's single-threaded global state: the
// simulated clock, the active process pointer, the event queue, and
// the set of signals pending flag clearance. Runtime shims are methods
// on *Context rather than free functions reading package globals, so
// multiple independent runs can coexist in one process (e.g. in
// tests).
type Context struct {
	Now        uint64
	Iteration  int32
	ActiveProc *Process
	Queue      *Queue
	Sink       Sink

	activeSignals    []*Signal
	activeSignalsCap int

	procs   []*Process
	signals []*Signal
}

// NewContext creates a Context with a fresh, empty event queue and
// the default active-signals capacity. sink may be nil, in which case
// tracing is disabled via NopSink.
func NewContext(sink Sink) *Context {
	if sink == nil {
		sink = NopSink{}
	}
	return &Context{
		Queue:            &Queue{},
		Sink:             sink,
		activeSignalsCap: defaultActiveSignalsCapacity,
		Iteration:        -1,
	}
}

// SetActiveSignalsCapacity overrides the capacity limit for the
// per-cycle active-signals set (default defaultActiveSignalsCapacity).
// Exposed mainly for tests exercising the overflow panic without
// driving 128 distinct signals through a cycle.
func (ctx *Context) SetActiveSignalsCapacity(n int) {
	ctx.activeSignalsCap = n
}

// markActive appends sig to the active-signals set, panicking on
// overflow exactly as the original's assert(n_active_signals <
// MAX_ACTIVE_SIGS) does.
func (ctx *Context) markActive(sig *Signal) {
	if len(ctx.activeSignals) >= ctx.activeSignalsCap {
		panic(&activeSignalsOverflow{capacity: ctx.activeSignalsCap})
	}
	ctx.activeSignals = append(ctx.activeSignals, sig)
}

// Setup binds the NOW intrinsic, resolves every signal's storage and
// driver count, and resolves every process's entry point, all from
// the design tree and loader oracles.
func Setup(tree DesignTree, loader Loader, sink Sink) (*Context, error) {
	ctx := NewContext(sink)

	loader.BindFn("STD.STANDARD.NOW", ctx.CurrentTime)

	for _, decl := range tree.Signals() {
		name := tree.Name(decl)
		sig, err := loader.VarPtr(name)
		if err != nil {
			return nil, err
		}
		sig.Decl = decl
		sig.Name = name
		nDrivers := tree.Drivers(decl)
		if len(sig.Sources) != nDrivers {
			sig.Sources = make([]*Transaction, nDrivers)
		}
		ctx.Sink.Tracef(ctx.Now, ctx.Iteration, "signal %s at %p", name, sig)
		ctx.signals = append(ctx.signals, sig)
	}

	for _, decl := range tree.Processes() {
		name := tree.Name(decl)
		entry, err := loader.FuncPtr(name)
		if err != nil {
			return nil, err
		}
		p := &Process{Source: decl, Name: name, Entry: entry}
		ctx.Sink.Tracef(ctx.Now, ctx.Iteration, "process %s at %p", name, p)
		ctx.procs = append(ctx.procs, p)
	}

	return ctx, nil
}

// Initial runs every process once with reset=true, in declaration
// order, without draining any events.
func (ctx *Context) Initial() {
	ctx.Now = 0
	ctx.Iteration = -1

	for _, p := range ctx.procs {
		ctx.runProcess(p, true)
	}
}

func (ctx *Context) runProcess(p *Process, reset bool) {
	ctx.Sink.Tracef(ctx.Now, ctx.Iteration, "%s process %s", resetWord(reset), p.Name)
	ctx.ActiveProc = p
	p.Entry(reset)
}

func resetWord(reset bool) string {
	if reset {
		return "reset"
	}
	return "run"
}

// Cycle advances the clock (or just the delta-iteration counter) to
// the head event's fire point, drains every event that shares that
// exact (time, iteration), and clears transient flags on every signal
// the drain touched.
func (ctx *Context) Cycle() {
	head := ctx.Queue.Peek()
	if head == nil {
		return
	}

	if head.delta > 0 {
		ctx.Now += head.delta
		head.delta = 0
		if head.iteration != 0 {
			panic("cycle: time-advancing event must carry iteration 0")
		}
		ctx.Iteration = 0
	} else {
		ctx.Iteration = head.iteration
	}

	ctx.Sink.Tracef(ctx.Now, ctx.Iteration, "begin cycle")
	if ctx.Sink.TraceEnabled() {
		ctx.Queue.Dump(ctx.Now, ctx.Iteration, ctx.Sink)
	}

	for {
		ev := ctx.Queue.Peek()
		switch ev.kind {
		case wakeProcess:
			ctx.runProcess(ev.proc, false)
		case updateDriver:
			ctx.updateDriverEvent(ev.sig)
		}
		ctx.Queue.Pop()

		next := ctx.Queue.Peek()
		if next == nil || !(next.delta == 0 && next.iteration == ctx.Iteration) {
			break
		}
	}

	for _, s := range ctx.activeSignals {
		s.Flags.ClearAll()
	}
	ctx.activeSignals = ctx.activeSignals[:0]
}

// Exec is the kernel's sole public entry point for running a design
// end to end, the Go analogue of rt_exec(top_unit_ident). elaborated
// reports whether topUnit names an elaborated design (vs. simply
// missing or the wrong kind of unit); in this Go rewrite that
// distinction is made by the caller, since resolving an elaborated
// artifact in the work library is parsing/elaboration's concern, out
// of the kernel's scope.
func Exec(topUnit string, elaborated bool, wrongKind bool, tree DesignTree, loader Loader, sink Sink) error {
	if !elaborated {
		return &ErrNotElaborated{Unit: topUnit}
	}
	if wrongKind {
		return &ErrWrongUnitKind{Unit: topUnit}
	}

	ctx, err := Setup(tree, loader, sink)
	if err != nil {
		return err
	}

	ctx.Initial()
	for !ctx.Queue.Empty() {
		ctx.Cycle()
	}
	return nil
}
