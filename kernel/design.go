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

// DesignTree is the read-only oracle over the elaborated top unit that
// parsing, elaboration, and code generation produce upstream of the
// kernel. The kernel enumerates processes and signals from it exactly
// once, during Setup.
type DesignTree interface {
	// Processes returns the top unit's process statements in
	// declaration order.
	Processes() []DeclHandle

	// Signals returns the top unit's signal declarations in
	// declaration order.
	Signals() []DeclHandle

	// Drivers returns the number of drivers for a signal declaration,
	// fixed for the lifetime of the run.
	Drivers(sig DeclHandle) int

	// Name returns the identifier string for a process or signal
	// declaration, used for JIT lookups and trace text.
	Name(decl DeclHandle) string
}

// Loader is the JIT/code-generator oracle. Generated code is produced
// out of band; the kernel only binds intrinsics into it and resolves
// identifiers to callables/addresses.
type Loader interface {
	// BindFn installs a kernel-provided intrinsic into the loaded
	// image under name, e.g. "STD.STANDARD.NOW". fn's signature is
	// whatever the generated code expects to call; the kernel only
	// ever binds CurrentTime.
	BindFn(name string, fn any)

	// FuncPtr resolves a process's entry point by identifier.
	FuncPtr(name string) (ProcessFunc, error)

	// VarPtr resolves a signal declaration's runtime storage by
	// identifier. The kernel stamps the returned Signal's Decl/Name;
	// attaching the signal to the tree node is the loader's
	// responsibility since it owns the storage, the kernel only
	// receives the handle back.
	VarPtr(name string) (SignalHandle, error)
}
