// Package engine wires the noise reducer, normalizer, compressor,
// equalizer, and limiter into the fixed processing chain and exposes the
// control surface a UI or IPC bridge drives from a different thread than
// the one calling Process. Every exported method other than Process is
// safe to call from any goroutine; Process itself must only ever be
// called from the single audio callback thread.
package engine
