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

// rtsim is a minimal host around the kernel package. It owns no
// design-file loading of its own — that is elaboration's job, out of
// scope here — and instead wires a small built-in design (a single
// self-rescheduling process) so there is something to run.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rtkern/kernel"
)

var (
	traceEnabled bool
	maxCycles    uint64
)

func main() {
	root := &cobra.Command{
		Use:   "rtsim",
		Short: "Run the built-in demo design through the simulation kernel",
		RunE:  run,
	}
	root.Flags().BoolVar(&traceEnabled, "trace", false, "enable kernel trace output")
	root.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "stop after N cycles (0 = unlimited)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rtsim: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	sink := kernel.NewLogrusSink(log)
	sink.SetTraceEnabled(traceEnabled)

	tree, loader := demoDesign()

	ctx, err := kernel.Setup(tree, loader, sink)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	loader.ctx = ctx

	ctx.Initial()
	cycles := uint64(0)
	for !ctx.Queue.Empty() {
		if maxCycles > 0 && cycles >= maxCycles {
			fmt.Fprintf(os.Stderr, "rtsim: stopped after %d cycles\n", cycles)
			return nil
		}
		ctx.Cycle()
		cycles++
	}

	fmt.Fprintf(os.Stderr, "rtsim: run complete, final time=%s, cycles=%d\n",
		kernel.FormatTime(ctx.CurrentTime()), cycles)
	return nil
}
