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

package main

import (
	"fmt"

	"rtkern/kernel"
)

// demoDecl is the built-in DesignTree's node type: a name plus a
// driver count for signals (ignored for processes).
type demoDecl struct {
	name    string
	drivers int
}

// demoTree is a fixed one-process design: P, on reset, schedules
// itself 10ns out; each later resumption reschedules at an increasing
// delay until the third resumption, which stops.
type demoTree struct {
	proc demoDecl
}

func (t *demoTree) Processes() []kernel.DeclHandle { return []kernel.DeclHandle{&t.proc} }
func (t *demoTree) Signals() []kernel.DeclHandle    { return nil }
func (t *demoTree) Drivers(kernel.DeclHandle) int   { return 0 }
func (t *demoTree) Name(d kernel.DeclHandle) string { return d.(*demoDecl).name }

// demoLoader resolves the demo design's single process to a closure
// that reschedules itself with a growing delay, then stops. ctx is
// filled in by the caller once Setup returns the bound Context, since
// the loader is handed to Setup before that Context exists.
type demoLoader struct {
	ctx         *kernel.Context
	resumptions int
}

func (l *demoLoader) BindFn(name string, fn any) {}

func (l *demoLoader) FuncPtr(name string) (kernel.ProcessFunc, error) {
	if name != "P" {
		return nil, fmt.Errorf("demoLoader: no process named %q", name)
	}
	return func(reset bool) {
		if reset {
			l.ctx.ScheduleProcess(10_000_000)
			return
		}
		l.resumptions++
		if l.resumptions < 3 {
			l.ctx.ScheduleProcess(uint64(l.resumptions+1) * 10_000_000)
		}
	}, nil
}

func (l *demoLoader) VarPtr(name string) (kernel.SignalHandle, error) {
	return nil, fmt.Errorf("demoLoader: no signal named %q", name)
}

func demoDesign() (kernel.DesignTree, *demoLoader) {
	return &demoTree{proc: demoDecl{name: "P"}}, &demoLoader{}
}
