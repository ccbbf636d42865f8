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

// Flags is the transient per-signal bitset: ACTIVE and EVENT, both
// cleared at the end of every cycle. Modeled as a small bitset with
// the same set/clear/test shape cpu.go uses for CPU flags
// (getFlags/FLAG_C etc.), generalized from a fixed register to a
// per-signal value.
type Flags uint8

const (
	FlagActive Flags = 1 << iota
	FlagEvent
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }
func (f *Flags) Set(bit Flags)     { *f |= bit }
func (f *Flags) Clear(bit Flags)   { *f &^= bit }
func (f *Flags) ClearAll()         { *f = 0 }

// DeclHandle identifies a node in the elaborated design tree (a
// signal or process declaration). It is opaque to the kernel; the
// design tree oracle hands one out per declaration and the kernel
// only ever uses it as a map/slice key and for Name() lookups when
// tracing.
type DeclHandle any

// SignalHandle is the loader-owned storage address of a signal's
// runtime record: storage for a signal is allocated and owned by the
// JIT/loader, and the kernel holds only a non-owning reference to it —
// here, simply a pointer to the Signal the loader constructed. See
// design.go's Loader.VarPtr.
type SignalHandle = *Signal

// Signal is the kernel's non-owning view of one declared signal.
// Sources holds one waveform queue head per driver, fixed in length
// at setup from DesignTree.Drivers.
type Signal struct {
	Resolved Value
	Decl     DeclHandle
	Name     string
	Flags    Flags
	Sources  []*Transaction
}

// NewSignal allocates a Signal with nDrivers driver queue heads, all
// nil until the first ScheduleWaveform call for that driver.
func NewSignal(decl DeclHandle, name string, nDrivers int) *Signal {
	return &Signal{
		Decl:    decl,
		Name:    name,
		Sources: make([]*Transaction, nDrivers),
	}
}
