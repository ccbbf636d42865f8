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
	"fmt"

	"github.com/sirupsen/logrus"
)

// timeUnits lists the simulated-time units from smallest to largest,
// each exactly 1000x the previous, mirroring fmt_time_r's units table
// in the original runtime.
var timeUnits = []struct {
	scale uint64
	name  string
}{
	{1, "fs"},
	{1_000, "ps"},
	{1_000_000, "ns"},
	{1_000_000_000, "us"},
	{1_000_000_000_000, "ms"},
}

// FormatTime renders fs femtoseconds in the largest exact unit that
// divides it, e.g. FormatTime(1_000_000_000_000) == "1ms". Zero is
// always "0fs" (there is no unit smaller than fs to prefer).
func FormatTime(fs uint64) string {
	u := 0
	for u+1 < len(timeUnits) && fs%timeUnits[u+1].scale == 0 {
		u++
	}
	if fs == 0 {
		u = 0
	}
	return fmt.Sprintf("%d%s", fs/timeUnits[u].scale, timeUnits[u].name)
}

// Sink is the kernel's diagnostic/report/trace destination: line-
// oriented text on a standard-error equivalent. Every method is a
// no-op on a Sink with tracing disabled except Report, which always
// fires (assertions are not trace output).
type Sink interface {
	// Tracef emits a trace line if tracing is enabled, prefixed
	// "TRACE (init): " before the first cycle or "TRACE <time>+<iter>: "
	// once the simulation clock has started.
	Tracef(now uint64, iteration int32, format string, args ...any)

	// Report emits an assertion/report line unconditionally:
	// "<time>+<iter>: {Report|Assertion} {level}: <text>".
	Report(now uint64, iteration int32, isReport bool, text string, sev Severity)

	// SetTraceEnabled implements rt_trace_enable.
	SetTraceEnabled(enabled bool)
	TraceEnabled() bool
}

// LogrusSink is the default Sink, backing trace.go's hand-rolled
// fmt.Fprintf(out, ...) tracer with a structured
// *logrus.Logger the way inference-sim/inference-sim uses logrus
// instead of raw fmt writes. Each message text is built in the
// original's "TRACE ..." and "<time>+<iter>: ..." shapes; logrus emits
// it as the msg field of its own line, so callers that scrape the
// sink's output find that text inside each line.
type LogrusSink struct {
	log     *logrus.Logger
	enabled bool
}

// NewLogrusSink wraps log (or a fresh default logger if log is nil)
// as a kernel Sink. Tracing starts disabled, matching rt_trace_en's
// default of trace_on = false in the original runtime.
func NewLogrusSink(log *logrus.Logger) *LogrusSink {
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			DisableQuote:     true,
		})
	}
	return &LogrusSink{log: log}
}

func (s *LogrusSink) SetTraceEnabled(enabled bool) { s.enabled = enabled }
func (s *LogrusSink) TraceEnabled() bool           { return s.enabled }

func (s *LogrusSink) Tracef(now uint64, iteration int32, format string, args ...any) {
	if !s.enabled {
		return
	}
	prefix := "TRACE (init): "
	if iteration >= 0 {
		prefix = fmt.Sprintf("TRACE %s+%d: ", FormatTime(now), iteration)
	}
	s.log.Infof("%s%s", prefix, fmt.Sprintf(format, args...))
}

func (s *LogrusSink) Report(now uint64, iteration int32, isReport bool, text string, sev Severity) {
	kind := "Assertion"
	if isReport {
		kind = "Report"
	}
	line := fmt.Sprintf("%s+%d: %s %s: %s", FormatTime(now), iteration, kind, sev, text)
	switch {
	case sev >= Error:
		s.log.Error(line)
	case sev == Warning:
		s.log.Warn(line)
	default:
		s.log.Info(line)
	}
}

// NopSink discards everything; useful for tests and benchmarks that
// don't want to pay for formatting trace strings.
type NopSink struct{}

func (NopSink) Tracef(uint64, int32, string, ...any)                {}
func (NopSink) Report(uint64, int32, bool, string, Severity)        {}
func (s NopSink) SetTraceEnabled(bool)                              {}
func (NopSink) TraceEnabled() bool                                  { return false }
