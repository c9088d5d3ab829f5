// Package wave defines the input model of a digital timing diagram.
//
// # Overview
//
// A timing diagram is a set of signals drawn against a shared time axis. Each
// signal is a sequence of discrete per-cycle states ([CycleState]), optionally
// annotated with box labels, node characters and a clock period. Signals may
// be nested into labeled groups, forming a tree of [Section] values that a
// [Figure] carries together with its header, footer, cycle rulers and edge
// declarations.
//
// # Time
//
// Positions along the time axis are expressed as [CycleOffset] values: a whole
// cycle index plus a quarter-cycle fraction. All arithmetic on offsets is exact
// and table driven, so repeated additions never drift the way float sums do.
// Convert a float phase with [FromFloat] and convert an offset to pixels with
// [CycleOffset.WidthOffset].
//
// # States
//
// [ParseCycles] turns the compact one-character-per-cycle notation into
// states:
//
//	sig := wave.NewSignal("01.zx=.").WithName("data").WithData("a0", "a1")
//
// The two meta states [Continue] and [Gap] repeat the previous real state;
// Gap additionally requests a break glyph. A sequence starting with a meta
// state falls back to [X].
//
// # Immutability
//
// Values in this package are caller-owned inputs. Nothing downstream mutates
// them, so a single [Figure] can be rendered concurrently with different
// style options.
package wave
