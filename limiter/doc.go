// Package limiter implements a peak-hold brick-wall limiter. Attack is
// instantaneous and computed from the current frame's peak, which is
// what lets it guarantee a ceiling without look-ahead.
package limiter
