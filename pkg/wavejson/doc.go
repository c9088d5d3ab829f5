// Package wavejson decodes WaveJSON timing diagram documents.
//
// WaveJSON is the de facto interchange format for digital timing diagrams:
//
//	{
//	  "signal": [
//	    {"name": "clk", "wave": "p......"},
//	    ["bus",
//	      {"name": "addr", "wave": "x3.x...", "data": "A1"},
//	      {"name": "data", "wave": "x..4.x.", "data": ["D1"]}
//	    ]
//	  ],
//	  "head": {"text": "read", "tick": 0},
//	  "edge": ["a~>b latency"],
//	  "config": {"hscale": 2}
//	}
//
// A signal item is either an object describing one signal or an array
// describing a group. The first string in a group array is its label; later
// strings are ignored.
//
// # Leniency
//
// Decoding is forgiving in the same places a diagram renderer is: a period
// is rounded up to a whole number of cycles (and at least 1), a phase that
// does not convert to a quarter-cycle offset becomes 0, and a head tick or
// foot tock without "every" labels every cycle. Edge declarations are kept
// verbatim; unparseable ones are dropped when the figure is assembled.
//
// Structural problems (a wave that is not a string, a group element that is
// neither string, array nor object) are reported. [Validate] checks a
// document against the bundled JSON Schema before conversion, which yields
// messages that point at the offending element.
//
// # Formats
//
// Besides strict JSON, documents may be written as YAML. [FormatRelaxed]
// covers the JavaScript-flavoured inputs often found in documentation
// (unquoted keys, single-quoted strings) by parsing them as YAML flow
// collections.
//
// Register diagrams ("reg" documents) are not supported and decode with
// [errors.ErrCodeUnsupported].
package wavejson
