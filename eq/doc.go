// Package eq implements a ten-band parametric equalizer at ISO-standard
// center frequencies, with a small set of built-in curve presets.
package eq
