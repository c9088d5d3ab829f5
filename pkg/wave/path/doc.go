// Package path converts a signal's cycle states into drawable outline
// segments.
//
// # Overview
//
// [Assemble] scans the states of a [wave.Signal] left to right while keeping
// two open sub-paths: a forward path along the outer (top) boundary and a
// backward path along the inner (bottom) boundary of boxed states. When a
// transition enters or leaves a boxed, data or undefined state, the current
// run is committed as a [Segment]: boxed runs append the reversed backward
// commands to close a fill polygon, plain runs are flushed as open strokes.
// The end of the sequence always emits a short lead-out and a final commit.
//
// # Transitions
//
// The join between two consecutive states is defined for every ordered pair
// of states. Straight joins connect same-level states, diagonals join Top
// and Bottom, half-height curves lead into and out of the middle level, and
// boxed runs are entered and left through short slants whose mirror image is
// recorded on the backward path.
//
// # Stroking
//
// A segment whose outline contains [VerticalNoStroke] commands is not fully
// stroked: that edge is shared with an adjacent segment and must be filled
// but not stroked again. Serializers split such segments into a filled path
// without stroke and a stroked path that skips the shared edge.
package path
