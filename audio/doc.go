// Package audio defines Block, the interleaved sample buffer the engine
// borrows from the host for the duration of one process call and never
// retains a reference to afterward.
package audio
