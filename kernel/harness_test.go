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

// decl is the test double's DeclHandle: a minimal stand-in for an
// elaborated design-tree node. Real elaboration produces much richer
// tree_t nodes; the kernel only ever needs a name, a driver count, and
// identity.
type decl struct {
	name     string
	drivers  int
	isSignal bool
}

// fakeTree is a DesignTree built directly from Go slices, standing in
// for a parser/elaborator/code-generator pipeline.
type fakeTree struct {
	procs   []DeclHandle
	signals []DeclHandle
}

func (t *fakeTree) Processes() []DeclHandle { return t.procs }
func (t *fakeTree) Signals() []DeclHandle   { return t.signals }

func (t *fakeTree) Drivers(d DeclHandle) int {
	return d.(*decl).drivers
}

func (t *fakeTree) Name(d DeclHandle) string {
	return d.(*decl).name
}

// fakeLoader is a Loader built from plain Go maps, standing in for a
// JIT that resolves identifiers to callables/addresses.
type fakeLoader struct {
	bound   map[string]any
	funcs   map[string]ProcessFunc
	signals map[string]SignalHandle
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		bound:   map[string]any{},
		funcs:   map[string]ProcessFunc{},
		signals: map[string]SignalHandle{},
	}
}

func (l *fakeLoader) BindFn(name string, fn any) { l.bound[name] = fn }

func (l *fakeLoader) FuncPtr(name string) (ProcessFunc, error) {
	fn, ok := l.funcs[name]
	if !ok {
		return nil, fmt.Errorf("fakeLoader: no function bound for %q", name)
	}
	return fn, nil
}

func (l *fakeLoader) VarPtr(name string) (SignalHandle, error) {
	sig, ok := l.signals[name]
	if !ok {
		return nil, fmt.Errorf("fakeLoader: no signal bound for %q", name)
	}
	return sig, nil
}
