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

// This file is the kernel's runtime-shim surface: the only functions
// generated process code calls. Each is a method on *Context rather
// than a free function over package globals — a shim takes the
// context handle it runs against instead of reading true globals, the
// same way cpu.go's CPU methods take *CPU instead of closing over
// package-level state.

// ScheduleProcess enqueues a wake for the currently active process at
// the given relative delay in femtoseconds.
func (ctx *Context) ScheduleProcess(delayFs uint64) {
	if ctx.ActiveProc == nil {
		panic("schedule_process: no active process")
	}
	ctx.Sink.Tracef(ctx.Now, ctx.Iteration, "_sched_process delay=%s", FormatTime(delayFs))
	ctx.Queue.InsertProcessWake(delayFs, ctx.Iteration, ctx.ActiveProc)
}

// ScheduleWaveform projects a new transaction onto one of sig's
// driver waveform queues.
func (ctx *Context) ScheduleWaveform(sig *Signal, driverIx int, value Value, afterFs uint64) {
	ctx.scheduleWaveform(sig, driverIx, value, afterFs)
}

// AssertFail logs the report/assertion line, and for severity >=
// Error, returns ErrAssertionFatal so the caller can translate it into
// a non-zero process exit. The kernel never calls os.Exit itself: a
// kernel-owned CLI/process-lifecycle surface is out of scope here, so
// translating a fatal assertion into an exit code is the host's job
// (see cmd/rtsim).
func (ctx *Context) AssertFail(isReport bool, text string, sev Severity) error {
	if sev < Note || sev > Failure {
		return fmt.Errorf("assert_fail: invalid severity %d", sev)
	}
	ctx.Sink.Report(ctx.Now, ctx.Iteration, isReport, text, sev)
	if sev >= Error {
		return ErrAssertionFatal
	}
	return nil
}

// CurrentTime is the Go analogue of current_time, bound to the design
// tree's STD.STANDARD.NOW intrinsic during Setup.
func (ctx *Context) CurrentTime() uint64 {
	return ctx.Now
}
