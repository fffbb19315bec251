// Package biquad implements second-order IIR filters using the RBJ
// audio-EQ-cookbook coefficient formulas, with per-instance Direct Form I
// state. Filters never share state across channels — callers construct
// one Section per channel.
package biquad
